package service

import (
	"context"
	"mime/multipart"
	"omigec/cmd/internal/contract"
	"omigec/cmd/internal/domain/entity"
	"omigec/cmd/internal/domain/policy"
	"omigec/cmd/internal/infrastructure/aws/storage"
	"omigec/cmd/internal/utils"
	"omigec/cmd/internal/utils/apierror"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
)

// MaxLogoSizeBytes caps sponsor logos.
const MaxLogoSizeBytes = 2 * 1024 * 1024

type SponsorRepository interface {
	FindAllActive() ([]*entity.Sponsor, error)
	FindByID(id int64) (*entity.Sponsor, error)
	Save(sponsor *entity.Sponsor) error
	Delete(sponsor *entity.Sponsor) error
}

type SponsorService struct {
	SponsorRepo SponsorRepository
	S3          storage.S3Client
	AdminPolicy *policy.AdminPolicy
	Validate    *validator.Validate

	now func() int64
}

func NewSponsorService(sponsorRepo SponsorRepository, s3 storage.S3Client, adminPolicy *policy.AdminPolicy, validate *validator.Validate) *SponsorService {
	return &SponsorService{
		SponsorRepo: sponsorRepo,
		S3:          s3,
		AdminPolicy: adminPolicy,
		Validate:    validate,
		now:         utils.NowUTC,
	}
}

func (s *SponsorService) ListActive() ([]*contract.SponsorResponse, apierror.ErrorResponse) {
	sponsors, err := s.SponsorRepo.FindAllActive()
	if err != nil {
		log.Errorf("failed to list sponsors: %v", err)
		return nil, apierror.InternalServerError
	}

	resp := make([]*contract.SponsorResponse, len(sponsors))
	for i, sponsor := range sponsors {
		resp[i] = toSponsorResponse(sponsor)
	}
	return resp, nil
}

// Create adds a sponsor, 'logo' is optional. The logo is removed again if
// the row cannot be written.
func (s *SponsorService) Create(ctx context.Context, actor *entity.User, req *contract.SponsorRequest, logo *multipart.FileHeader) (*contract.SponsorResponse, apierror.ErrorResponse) {
	if apierr := s.AdminPolicy.CanManageSponsors(actor); apierr != nil {
		return nil, apierr
	}

	utils.Sanitize(req)
	if err := s.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	now := s.now()
	sponsor := &entity.Sponsor{
		Name:      req.Name,
		Website:   req.Website,
		Tier:      entity.SponsorTier(req.Tier),
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	sg := newSaga("sponsor creation " + req.Name)
	if logo != nil {
		if apierr := checkFile(logo, MaxLogoSizeBytes, contract.ValidLogoTypes); apierr != nil {
			return nil, apierr
		}

		key, apierr := uploadFile(ctx, s.S3, PathSponsors, logo)
		if apierr != nil {
			return nil, apierr
		}

		sponsor.LogoKey = key
		sg.onRollback("object "+key, func(ctx context.Context) error {
			return s.S3.DeleteFile(ctx, key)
		})
	}

	if err := s.SponsorRepo.Save(sponsor); err != nil {
		log.Errorf("failed to create sponsor %s: %v", req.Name, err)
		if rerr := sg.rollback(ctx); rerr != nil {
			log.Errorf("%s: rollback incomplete: %v", sg.name, rerr)
			return nil, apierror.RollbackIncomplete
		}
		return nil, apierror.InternalServerError
	}
	return toSponsorResponse(sponsor), nil
}

func (s *SponsorService) Update(actor *entity.User, id int64, req *contract.UpdateSponsorRequest) (*contract.SponsorResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := s.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	sponsor, apierr := s.fetchManaged(actor, id)
	if apierr != nil {
		return nil, apierr
	}

	cs := &changeSet{}
	cs.setString(req.Name, &sponsor.Name)
	cs.setString(req.Website, &sponsor.Website)

	if req.Tier != nil && entity.SponsorTier(*req.Tier) != sponsor.Tier {
		sponsor.Tier = entity.SponsorTier(*req.Tier)
		cs.dirty = true
	}

	if req.IsActive != nil && *req.IsActive != sponsor.IsActive {
		sponsor.IsActive = *req.IsActive
		cs.dirty = true
	}

	if cs.dirty {
		sponsor.UpdatedAt = s.now()
		if err := s.SponsorRepo.Save(sponsor); err != nil {
			log.Errorf("failed to update sponsor %d: %v", sponsor.ID, err)
			return nil, apierror.InternalServerError
		}
	}
	return toSponsorResponse(sponsor), nil
}

// Delete removes the logo first, so a failure there leaves the row and
// the admin can retry. Deleting a missing object is not an error.
func (s *SponsorService) Delete(ctx context.Context, actor *entity.User, id int64) apierror.ErrorResponse {
	sponsor, apierr := s.fetchManaged(actor, id)
	if apierr != nil {
		return apierr
	}

	if sponsor.LogoKey != "" {
		if err := s.S3.DeleteFile(ctx, sponsor.LogoKey); err != nil {
			log.Errorf("failed to delete logo %s of sponsor %d: %v", sponsor.LogoKey, sponsor.ID, err)
			return apierror.NewUpstreamError("de stockage", err)
		}
	}

	if err := s.SponsorRepo.Delete(sponsor); err != nil {
		log.Errorf("failed to delete sponsor %d: %v", sponsor.ID, err)
		return apierror.InternalServerError
	}
	return nil
}

func (s *SponsorService) fetchManaged(actor *entity.User, id int64) (*entity.Sponsor, apierror.ErrorResponse) {
	if apierr := s.AdminPolicy.CanManageSponsors(actor); apierr != nil {
		return nil, apierr
	}

	sponsor, err := s.SponsorRepo.FindByID(id)
	if err != nil {
		log.Errorf("failed to fetch sponsor %d: %v", id, err)
		return nil, apierror.InternalServerError
	}

	if sponsor == nil {
		return nil, apierror.NotFoundError
	}
	return sponsor, nil
}
