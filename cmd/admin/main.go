package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/nexla-ia/plataforma-conversa-sub000/internal/config"
	"github.com/nexla-ia/plataforma-conversa-sub000/internal/directory"
	"github.com/nexla-ia/plataforma-conversa-sub000/internal/models"
	"github.com/nexla-ia/plataforma-conversa-sub000/internal/session"
	"github.com/nexla-ia/plataforma-conversa-sub000/internal/storage"
	"github.com/rs/zerolog/log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const usage = `Usage: admin <command> [args]

  create-company <user_id> <name> [email] [api_key]
  list-companies
  update-company <company_id> <field> <value>   (field: name, email, phone)
  create-attendant <company_id> <user_id> <name> [email] [department_id] [sector_id]
  token <user_id>`

func main() {
	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(1)
	}

	cfg := config.Load()
	command, args := os.Args[1], os.Args[2:]

	if command == "token" {
		if len(args) != 1 {
			fmt.Println("Usage: admin token <user_id>")
			os.Exit(1)
		}
		token, err := session.IssueToken(cfg.JWTSecret, args[0], config.DevTokenTTL)
		if err != nil {
			log.Fatal().Err(err).Msg("error issuing token")
		}
		fmt.Println(token)
		return
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	// No change feed: dashboards pick CLI changes up on their next poll.
	svc := directory.NewService(storage.NewStorageService(db), nil)
	operator := models.Actor{UserID: "admin-cli", Role: models.RoleSuperAdmin}
	ctx := context.Background()

	switch command {
	case "create-company":
		if len(args) < 2 {
			fmt.Println("Usage: admin create-company <user_id> <name> [email] [api_key]")
			os.Exit(1)
		}
		in := directory.CompanyInput{UserID: args[0], Name: args[1], Email: arg(args, 2), APIKey: arg(args, 3)}
		company, err := svc.CreateCompany(ctx, operator, in)
		if err != nil {
			log.Fatal().Err(err).Msg("error creating company")
		}
		printJSON(company)
	case "list-companies":
		companies, err := svc.ListCompanies(ctx, operator)
		if err != nil {
			log.Fatal().Err(err).Msg("error listing companies")
		}
		printJSON(companies)
	case "update-company":
		if len(args) != 3 {
			fmt.Println("Usage: admin update-company <company_id> <field> <value>")
			os.Exit(1)
		}
		upd, ok := companyUpdate(args[1], args[2])
		if !ok {
			fmt.Printf("Unknown field %q\n", args[1])
			os.Exit(1)
		}
		company, err := svc.UpdateCompany(ctx, operator, args[0], upd)
		if err != nil {
			log.Fatal().Err(err).Msg("error updating company")
		}
		printJSON(company)
	case "create-attendant":
		if len(args) < 3 {
			fmt.Println("Usage: admin create-attendant <company_id> <user_id> <name> [email] [department_id] [sector_id]")
			os.Exit(1)
		}
		in := directory.AttendantInput{
			UserID:       args[1],
			Name:         args[2],
			Email:        arg(args, 3),
			DepartmentID: optional(arg(args, 4)),
			SectorID:     optional(arg(args, 5)),
		}
		attendant, err := svc.CreateAttendant(ctx, operator, args[0], in)
		if err != nil {
			log.Fatal().Err(err).Msg("error creating attendant")
		}
		printJSON(attendant)
	default:
		fmt.Println("Unknown command")
		fmt.Println(usage)
		os.Exit(1)
	}
}

func companyUpdate(field, value string) (directory.CompanyUpdate, bool) {
	var upd directory.CompanyUpdate
	switch field {
	case "name":
		upd.Name = &value
	case "email":
		upd.Email = &value
	case "phone":
		upd.Phone = &value
	default:
		return upd, false
	}
	return upd, true
}

func arg(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func printJSON(v any) {
	out, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(out))
}
