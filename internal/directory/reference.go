package directory

import (
	"context"
	"fmt"
	"strings"

	"github.com/nexla-ia/plataforma-conversa-sub000/internal/config"
	"github.com/nexla-ia/plataforma-conversa-sub000/internal/models"
	"github.com/nexla-ia/plataforma-conversa-sub000/internal/realtime"
)

func (s *Service) CreateDepartment(ctx context.Context, actor models.Actor, name, description string) (*models.Department, error) {
	companyID := actor.CompanyID()
	if !canManage(actor, companyID) || companyID == "" {
		return nil, ErrForbidden
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid("name is required")
	}

	dep := &models.Department{CompanyID: companyID, Name: name, Description: strings.TrimSpace(description)}
	if err := s.Storage.CreateDepartment(ctx, dep); err != nil {
		return nil, fmt.Errorf("create department: %w", err)
	}
	s.announce(ctx, config.TableDepartments, realtime.OpInsert, companyID)
	return dep, nil
}

func (s *Service) DeleteDepartment(ctx context.Context, actor models.Actor, id string) error {
	companyID := actor.CompanyID()
	if !canManage(actor, companyID) || companyID == "" {
		return ErrForbidden
	}
	if err := s.Storage.DeleteDepartment(ctx, companyID, id); err != nil {
		return fmt.Errorf("delete department: %w", err)
	}
	s.announce(ctx, config.TableDepartments, realtime.OpDelete, companyID)
	return nil
}

func (s *Service) CreateSector(ctx context.Context, actor models.Actor, name string, departmentID *string) (*models.Sector, error) {
	companyID := actor.CompanyID()
	if !canManage(actor, companyID) || companyID == "" {
		return nil, ErrForbidden
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid("name is required")
	}
	if err := s.checkAssignment(ctx, companyID, departmentID, nil); err != nil {
		return nil, err
	}

	sec := &models.Sector{CompanyID: companyID, Name: name, DepartmentID: departmentID}
	if err := s.Storage.CreateSector(ctx, sec); err != nil {
		return nil, fmt.Errorf("create sector: %w", err)
	}
	s.announce(ctx, config.TableSectors, realtime.OpInsert, companyID)
	return sec, nil
}

func (s *Service) DeleteSector(ctx context.Context, actor models.Actor, id string) error {
	companyID := actor.CompanyID()
	if !canManage(actor, companyID) || companyID == "" {
		return ErrForbidden
	}
	if err := s.Storage.DeleteSector(ctx, companyID, id); err != nil {
		return fmt.Errorf("delete sector: %w", err)
	}
	s.announce(ctx, config.TableSectors, realtime.OpDelete, companyID)
	return nil
}

func (s *Service) CreateTag(ctx context.Context, actor models.Actor, name, color string) (*models.Tag, error) {
	companyID := actor.CompanyID()
	if !canManage(actor, companyID) || companyID == "" {
		return nil, ErrForbidden
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid("name is required")
	}

	tag := &models.Tag{CompanyID: companyID, Name: name, Color: strings.TrimSpace(color)}
	if err := s.Storage.CreateTag(ctx, tag); err != nil {
		return nil, fmt.Errorf("create tag: %w", err)
	}
	s.announce(ctx, config.TableTags, realtime.OpInsert, companyID)
	return tag, nil
}

// DeleteTag also detaches the tag from contacts.
func (s *Service) DeleteTag(ctx context.Context, actor models.Actor, id string) error {
	companyID := actor.CompanyID()
	if !canManage(actor, companyID) || companyID == "" {
		return ErrForbidden
	}
	if err := s.Storage.DeleteTag(ctx, companyID, id); err != nil {
		return fmt.Errorf("delete tag: %w", err)
	}
	s.announce(ctx, config.TableTags, realtime.OpDelete, companyID)
	s.announce(ctx, config.TableContacts, realtime.OpUpdate, companyID)
	return nil
}
