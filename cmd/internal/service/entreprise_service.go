package service

import (
	"omigec/cmd/internal/contract"
	"omigec/cmd/internal/domain/entity"
	"omigec/cmd/internal/domain/policy"
	"omigec/cmd/internal/utils"
	"omigec/cmd/internal/utils/apierror"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
)

type EntrepriseService struct {
	EntrepriseRepo EntrepriseRepository
	AdminPolicy    *policy.AdminPolicy
	Validate       *validator.Validate

	now func() int64
}

func NewEntrepriseService(entrepriseRepo EntrepriseRepository, adminPolicy *policy.AdminPolicy, validate *validator.Validate) *EntrepriseService {
	return &EntrepriseService{
		EntrepriseRepo: entrepriseRepo,
		AdminPolicy:    adminPolicy,
		Validate:       validate,
		now:            utils.NowUTC,
	}
}

func (e *EntrepriseService) GetMine(actor *entity.User) (*contract.EntrepriseResponse, apierror.ErrorResponse) {
	ent, apierr := entrepriseOf(e.EntrepriseRepo, actor)
	if apierr != nil {
		return nil, apierr
	}
	return toEntrepriseResponse(ent), nil
}

// UpdateMine edits the contact data. NIF and status are not editable by
// the entreprise itself.
func (e *EntrepriseService) UpdateMine(actor *entity.User, req *contract.UpdateEntrepriseRequest) (*contract.EntrepriseResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if req.Phone != nil {
		phone := utils.NormalizePhone(*req.Phone)
		req.Phone = &phone
	}

	if err := e.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	ent, apierr := entrepriseOf(e.EntrepriseRepo, actor)
	if apierr != nil {
		return nil, apierr
	}

	cs := &changeSet{}
	cs.setString(req.Name, &ent.Name)
	cs.setString(req.Sector, &ent.Sector)
	cs.setString(req.Phone, &ent.Phone)
	cs.setString(req.Address, &ent.Address)
	cs.setString(req.City, &ent.City)
	cs.setString(req.Website, &ent.Website)

	if cs.dirty {
		ent.UpdatedAt = e.now()
		if err := e.EntrepriseRepo.Save(ent); err != nil {
			log.Errorf("failed to update entreprise %d: %v", ent.ID, err)
			return nil, apierror.InternalServerError
		}
	}
	return toEntrepriseResponse(ent), nil
}

func (e *EntrepriseService) ListEntreprises(actor *entity.User, query *contract.AdminListQuery) (*contract.EntrepriseListResponse, apierror.ErrorResponse) {
	if apierr := e.AdminPolicy.CanManageEntreprises(actor); apierr != nil {
		return nil, apierr
	}

	utils.Sanitize(query)
	if err := e.Validate.Struct(query); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	status := entity.EntrepriseStatus(query.Status)
	switch status {
	case "", entity.EntrepriseStatusPending, entity.EntrepriseStatusValid, entity.EntrepriseStatusSuspended:
	default:
		return nil, apierror.NewInvalidParamTypeError("status", "entreprise status")
	}

	limit, offset := pageOf(query.Limit, query.Offset)
	ents, total, err := e.EntrepriseRepo.FindByStatus(status, limit, offset)
	if err != nil {
		log.Errorf("failed to list entreprises with status %q: %v", status, err)
		return nil, apierror.InternalServerError
	}

	resp := make([]*contract.EntrepriseResponse, len(ents))
	for i, ent := range ents {
		resp[i] = toEntrepriseResponse(ent)
	}
	return &contract.EntrepriseListResponse{Entreprises: resp, Total: total}, nil
}

func (e *EntrepriseService) ValidateEntreprise(actor *entity.User, id int64) (*contract.EntrepriseResponse, apierror.ErrorResponse) {
	return e.transition(actor, id, entity.EntrepriseStatusValid, "")
}

func (e *EntrepriseService) SuspendEntreprise(actor *entity.User, id int64, req *contract.StatusReasonRequest) (*contract.EntrepriseResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := e.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}
	return e.transition(actor, id, entity.EntrepriseStatusSuspended, req.Reason)
}

// RejectEntreprise refuses a pending registration. The account ends up
// suspended with the reason, there is no separate rejected status.
func (e *EntrepriseService) RejectEntreprise(actor *entity.User, id int64, req *contract.StatusReasonRequest) (*contract.EntrepriseResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := e.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	if req.Reason == "" {
		return nil, apierror.NewMissingParamError("reason")
	}

	ent, apierr := e.fetchManaged(actor, id)
	if apierr != nil {
		return nil, apierr
	}

	if ent.Status != entity.EntrepriseStatusPending {
		return nil, apierror.InvalidTransition
	}
	return e.apply(ent, entity.EntrepriseStatusSuspended, req.Reason)
}

func (e *EntrepriseService) transition(actor *entity.User, id int64, to entity.EntrepriseStatus, reason string) (*contract.EntrepriseResponse, apierror.ErrorResponse) {
	ent, apierr := e.fetchManaged(actor, id)
	if apierr != nil {
		return nil, apierr
	}
	return e.apply(ent, to, reason)
}

func (e *EntrepriseService) apply(ent *entity.Entreprise, to entity.EntrepriseStatus, reason string) (*contract.EntrepriseResponse, apierror.ErrorResponse) {
	if !entity.CanTransition(ent.Status, to) {
		return nil, apierror.InvalidTransition
	}

	ent.Status = to
	ent.StatusReason = reason
	ent.UpdatedAt = e.now()
	if err := e.EntrepriseRepo.Save(ent); err != nil {
		log.Errorf("failed to move entreprise %d to %s: %v", ent.ID, to, err)
		return nil, apierror.InternalServerError
	}
	return toEntrepriseResponse(ent), nil
}

func (e *EntrepriseService) fetchManaged(actor *entity.User, id int64) (*entity.Entreprise, apierror.ErrorResponse) {
	if apierr := e.AdminPolicy.CanManageEntreprises(actor); apierr != nil {
		return nil, apierr
	}

	ent, err := e.EntrepriseRepo.FindByID(id)
	if err != nil {
		log.Errorf("failed to fetch entreprise %d: %v", id, err)
		return nil, apierror.InternalServerError
	}

	if ent == nil {
		return nil, apierror.NotFoundError
	}
	return ent, nil
}
