package service

import (
	"context"
	"errors"
	"fmt"
	"omigec/cmd/internal/contract"
	"omigec/cmd/internal/domain/entity"
	"omigec/cmd/internal/infrastructure/cache"
	"omigec/cmd/internal/utils"
	"omigec/cmd/internal/utils/apierror"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
)

// DirectoryCachePrefix namespaces every cached directory page. Any write
// that can change what the directory shows drops the whole namespace.
const DirectoryCachePrefix = "directory:"

type ProfileService struct {
	ProfileRepo ProfileRepository
	Cache       cache.Cache
	CacheTTL    time.Duration
	Validate    *validator.Validate

	now func() int64
}

func NewProfileService(profileRepo ProfileRepository, dirCache cache.Cache, ttl time.Duration, validate *validator.Validate) *ProfileService {
	return &ProfileService{
		ProfileRepo: profileRepo,
		Cache:       dirCache,
		CacheTTL:    ttl,
		Validate:    validate,
		now:         utils.NowUTC,
	}
}

func (p *ProfileService) GetMine(actor *entity.User) (*contract.ProfileResponse, apierror.ErrorResponse) {
	profile, apierr := profileOf(p.ProfileRepo, actor)
	if apierr != nil {
		return nil, apierr
	}
	return toProfileResponse(profile), nil
}

func (p *ProfileService) UpdateMine(ctx context.Context, actor *entity.User, req *contract.UpdateProfileRequest) (*contract.ProfileResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if req.Phone != nil {
		phone := utils.NormalizePhone(*req.Phone)
		req.Phone = &phone
	}

	if err := p.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	profile, apierr := profileOf(p.ProfileRepo, actor)
	if apierr != nil {
		return nil, apierr
	}

	cs := &changeSet{}
	cs.setString(req.Phone, &profile.Phone)
	cs.setString(req.Address, &profile.Address)
	cs.setString(req.City, &profile.City)
	cs.setString(req.Bio, &profile.Bio)
	cs.setDomains(req.Domains, &profile.Domains)

	if req.ExerciseMode != nil && entity.ExerciseMode(*req.ExerciseMode) != profile.ExerciseMode {
		profile.ExerciseMode = entity.ExerciseMode(*req.ExerciseMode)
		cs.dirty = true
	}

	if !cs.dirty {
		return toProfileResponse(profile), nil
	}

	profile.UpdatedAt = p.now()
	if err := p.ProfileRepo.Save(profile); err != nil {
		log.Errorf("failed to update profile %d: %v", profile.ID, err)
		return nil, apierror.InternalServerError
	}

	if profile.Status == entity.ProfileStatusValidated {
		if err := p.Cache.Invalidate(ctx, DirectoryCachePrefix); err != nil {
			log.Warnf("failed to invalidate directory cache: %v", err)
		}
	}
	return toProfileResponse(profile), nil
}

// SearchDirectory lists validated engineers. Pages are cached, a cache
// failure only costs a database query.
func (p *ProfileService) SearchDirectory(ctx context.Context, query *contract.DirectoryQuery) (*contract.DirectoryResponse, apierror.ErrorResponse) {
	utils.Sanitize(query)
	query.Domain = strings.ToLower(query.Domain)
	if err := p.Validate.Struct(query); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	limit, offset := pageOf(query.Limit, query.Offset)
	key := directoryKey(query.Query, query.Domain, limit, offset)

	var resp contract.DirectoryResponse
	err := p.Cache.Get(ctx, key, &resp)
	if err == nil {
		return &resp, nil
	}

	if !errors.Is(err, cache.ErrMiss) {
		log.Warnf("failed to read directory cache %s: %v", key, err)
	}

	profiles, total, err := p.ProfileRepo.Search(query.Query, query.Domain, limit, offset)
	if err != nil {
		log.Errorf("failed to search directory: %v", err)
		return nil, apierror.InternalServerError
	}

	engineers := make([]*contract.PublicProfileResponse, len(profiles))
	for i, profile := range profiles {
		engineers[i] = toPublicProfileResponse(profile)
	}

	resp = contract.DirectoryResponse{
		Engineers: engineers,
		Total:     total,
		Limit:     limit,
		Offset:    offset,
	}

	if err := p.Cache.Set(ctx, key, &resp, p.CacheTTL); err != nil {
		log.Warnf("failed to write directory cache %s: %v", key, err)
	}
	return &resp, nil
}

// GetPublicProfile only exposes validated engineers.
func (p *ProfileService) GetPublicProfile(id int64) (*contract.PublicProfileResponse, apierror.ErrorResponse) {
	profile, err := p.ProfileRepo.FindByID(id)
	if err != nil {
		log.Errorf("failed to fetch profile %d: %v", id, err)
		return nil, apierror.InternalServerError
	}

	if profile == nil || profile.Status != entity.ProfileStatusValidated {
		return nil, apierror.NotFoundError
	}
	return toPublicProfileResponse(profile), nil
}

func directoryKey(query, domain string, limit, offset int) string {
	return fmt.Sprintf("%sq=%s;d=%s;l=%d;o=%d", DirectoryCachePrefix, strings.ToLower(query), domain, limit, offset)
}
