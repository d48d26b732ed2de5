package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Vebses/GeoAdmin-sub000/internal/apierror"
	"github.com/Vebses/GeoAdmin-sub000/internal/dto"
	"github.com/Vebses/GeoAdmin-sub000/internal/model"
	"github.com/Vebses/GeoAdmin-sub000/internal/repository"
)

// DirectoryService serves read-only views of the invoicing core's
// collaborators: cases and their billable actions, partners, companies.
// Mutation of these entities belongs to the back-office application.
type DirectoryService interface {
	GetCase(ctx context.Context, id uuid.UUID) (*dto.CaseResponse, error)
	ListCases(ctx context.Context, page, limit int) ([]dto.CaseResponse, int64, error)
	// ListCaseActions optionally narrows to one executor (uuid.Nil means all).
	ListCaseActions(ctx context.Context, caseID, executorID uuid.UUID) ([]dto.CaseActionResponse, error)
	GetPartner(ctx context.Context, id uuid.UUID) (*dto.PartnerResponse, error)
	ListPartners(ctx context.Context, partnerType string, page, limit int) ([]dto.PartnerResponse, int64, error)
	GetCompany(ctx context.Context, id uuid.UUID) (*dto.CompanyResponse, error)
	ListCompanies(ctx context.Context) ([]dto.CompanyResponse, error)
}

type directoryService struct {
	cases     repository.CaseRepository
	actions   repository.CaseActionRepository
	partners  repository.PartnerRepository
	companies repository.CompanyRepository
}

func NewDirectoryService(
	cases repository.CaseRepository,
	actions repository.CaseActionRepository,
	partners repository.PartnerRepository,
	companies repository.CompanyRepository,
) DirectoryService {
	return &directoryService{cases: cases, actions: actions, partners: partners, companies: companies}
}

func (s *directoryService) GetCase(ctx context.Context, id uuid.UUID) (*dto.CaseResponse, error) {
	c, err := s.cases.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.MissingEntity("case", id.String())
		}
		return nil, err
	}
	return caseToResponse(c), nil
}

func (s *directoryService) ListCases(ctx context.Context, page, limit int) ([]dto.CaseResponse, int64, error) {
	cases, total, err := s.cases.List(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.CaseResponse, 0, len(cases))
	for i := range cases {
		out = append(out, *caseToResponse(&cases[i]))
	}
	return out, total, nil
}

func (s *directoryService) ListCaseActions(ctx context.Context, caseID, executorID uuid.UUID) ([]dto.CaseActionResponse, error) {
	var acts []model.CaseAction
	var err error
	if executorID == uuid.Nil {
		acts, err = s.actions.ListByCase(ctx, caseID)
	} else {
		acts, err = s.actions.ListByCaseAndExecutor(ctx, caseID, executorID)
	}
	if err != nil {
		return nil, err
	}
	out := make([]dto.CaseActionResponse, 0, len(acts))
	for i := range acts {
		out = append(out, *actionToResponse(&acts[i]))
	}
	return out, nil
}

func (s *directoryService) GetPartner(ctx context.Context, id uuid.UUID) (*dto.PartnerResponse, error) {
	p, err := s.partners.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.MissingEntity("partner", id.String())
		}
		return nil, err
	}
	return partnerToResponse(p), nil
}

func (s *directoryService) ListPartners(ctx context.Context, partnerType string, page, limit int) ([]dto.PartnerResponse, int64, error) {
	partners, total, err := s.partners.List(ctx, partnerType, page, limit)
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.PartnerResponse, 0, len(partners))
	for i := range partners {
		out = append(out, *partnerToResponse(&partners[i]))
	}
	return out, total, nil
}

func (s *directoryService) GetCompany(ctx context.Context, id uuid.UUID) (*dto.CompanyResponse, error) {
	co, err := s.companies.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.MissingEntity("company", id.String())
		}
		return nil, err
	}
	return companyToResponse(co), nil
}

func (s *directoryService) ListCompanies(ctx context.Context) ([]dto.CompanyResponse, error) {
	companies, err := s.companies.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CompanyResponse, 0, len(companies))
	for i := range companies {
		out = append(out, *companyToResponse(&companies[i]))
	}
	return out, nil
}

func caseToResponse(c *model.Case) *dto.CaseResponse {
	return &dto.CaseResponse{
		ID:                c.ID.String(),
		Number:            c.Number,
		PatientName:       c.PatientName,
		PatientPersonalID: c.PatientPersonalID,
		Status:            c.Status,
		CreatedAt:         timeStr(c.CreatedAt),
	}
}

func actionToResponse(a *model.CaseAction) *dto.CaseActionResponse {
	resp := &dto.CaseActionResponse{
		ID:                 a.ID.String(),
		CaseID:             a.CaseID.String(),
		ExecutorID:         a.ExecutorID.String(),
		ServiceName:        a.ServiceName,
		ServiceDescription: a.ServiceDescription,
		ServiceCost:        a.ServiceCost,
		ServiceCurrency:    a.ServiceCurrency,
		AssistanceCost:     a.AssistanceCost,
		AssistanceCurrency: a.AssistanceCurrency,
		CommissionCost:     a.CommissionCost,
		CommissionCurrency: a.CommissionCurrency,
	}
	if a.Executor != nil {
		resp.ExecutorName = a.Executor.LegalName
	}
	return resp
}

func partnerToResponse(p *model.Partner) *dto.PartnerResponse {
	return &dto.PartnerResponse{
		ID:        p.ID.String(),
		LegalName: p.LegalName,
		TaxID:     p.TaxID,
		Type:      p.Type,
		Email:     p.Email,
		Phone:     p.Phone,
		Address:   p.Address,
		Country:   p.Country,
		Active:    p.Active,
	}
}

func companyToResponse(c *model.Company) *dto.CompanyResponse {
	return &dto.CompanyResponse{
		ID:        c.ID.String(),
		LegalName: c.LegalName,
		TaxID:     c.TaxID,
		Email:     c.Email,
		Phone:     c.Phone,
		Address:   c.Address,
		BankName:  c.BankName,
		BankCode:  c.BankCode,
		IBANGEL:   c.IBANGEL,
		IBANUSD:   c.IBANUSD,
		IBANEUR:   c.IBANEUR,
		Active:    c.Active,
	}
}
