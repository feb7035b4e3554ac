package service

import (
	"omigec/cmd/internal/contract"
	"omigec/cmd/internal/domain/entity"
	"omigec/cmd/internal/domain/plans"
	"omigec/cmd/internal/utils"
	"strconv"
)

func toEntrepriseResponse(ent *entity.Entreprise) *contract.EntrepriseResponse {
	return &contract.EntrepriseResponse{
		ID:           ent.ID,
		UserID:       ent.UserID,
		Name:         ent.Name,
		NIF:          ent.NIF,
		Sector:       ent.Sector,
		Email:        ent.Email,
		Phone:        ent.Phone,
		Address:      ent.Address,
		City:         ent.City,
		Website:      ent.Website,
		Status:       string(ent.Status),
		StatusReason: ent.StatusReason,
		CreatedAt:    utils.FormatEpoch(ent.CreatedAt),
		UpdatedAt:    utils.FormatEpoch(ent.UpdatedAt),
	}
}

// toEntrepriseSummary returns nil when the relation was not loaded.
func toEntrepriseSummary(ent *entity.Entreprise) *contract.EntrepriseSummary {
	if ent == nil || ent.ID == 0 {
		return nil
	}

	return &contract.EntrepriseSummary{
		ID:     ent.ID,
		Name:   ent.Name,
		Sector: ent.Sector,
		City:   ent.City,
	}
}

func toJobResponse(job *entity.JobOffer) *contract.JobResponse {
	return &contract.JobResponse{
		ID:           job.ID,
		EntrepriseID: job.EntrepriseID,
		Title:        job.Title,
		Description:  job.Description,
		Requirements: job.Requirements,
		Domains:      entity.SplitDomains(job.Domains),
		ContractType: string(job.ContractType),
		Location:     job.Location,
		SalaryRange:  job.SalaryRange,
		Deadline:     utils.FormatDate(job.Deadline),
		IsActive:     job.IsActive,
		ViewsCount:   job.ViewsCount,
		CreatedAt:    utils.FormatEpoch(job.CreatedAt),
		UpdatedAt:    utils.FormatEpoch(job.UpdatedAt),
		Entreprise:   toEntrepriseSummary(&job.Entreprise),
	}
}

func toJobResponses(jobs []*entity.JobOffer) []*contract.JobResponse {
	resp := make([]*contract.JobResponse, len(jobs))
	for i, job := range jobs {
		resp[i] = toJobResponse(job)
	}
	return resp
}

func toApplicationResponse(app *entity.Application) *contract.ApplicationResponse {
	resp := &contract.ApplicationResponse{
		ID:          app.ID,
		JobID:       app.JobID,
		EngineerID:  app.EngineerID,
		Status:      string(app.Status),
		CoverLetter: app.CoverLetter,
		CreatedAt:   utils.FormatEpoch(app.CreatedAt),
		UpdatedAt:   utils.FormatEpoch(app.UpdatedAt),
	}

	if app.Job.ID != 0 {
		resp.Job = toJobResponse(&app.Job)
	}

	if app.Engineer.ID != 0 {
		resp.Engineer = toPublicProfileResponse(&app.Engineer)
	}
	return resp
}

func toProfileResponse(p *entity.Profile) *contract.ProfileResponse {
	return &contract.ProfileResponse{
		ID:                 p.ID,
		UserID:             p.UserID,
		NNI:                p.NNI,
		FullName:           p.FullName,
		Email:              p.Email,
		Phone:              p.Phone,
		Address:            p.Address,
		City:               p.City,
		DiplomaTitle:       p.DiplomaTitle,
		DiplomaInstitution: p.DiplomaInstitution,
		DiplomaYear:        p.DiplomaYear,
		Domains:            entity.SplitDomains(p.Domains),
		ExerciseMode:       string(p.ExerciseMode),
		Bio:                p.Bio,
		Status:             string(p.Status),
		RejectionReason:    p.RejectionReason,
		SubscriptionExpiry: utils.FormatEpochPtr(p.SubscriptionExpiry),
		ParrainID:          p.ParrainID,
		CreatedAt:          utils.FormatEpoch(p.CreatedAt),
		UpdatedAt:          utils.FormatEpoch(p.UpdatedAt),
	}
}

func toPublicProfileResponse(p *entity.Profile) *contract.PublicProfileResponse {
	return &contract.PublicProfileResponse{
		ID:                 p.ID,
		FullName:           p.FullName,
		City:               p.City,
		DiplomaTitle:       p.DiplomaTitle,
		DiplomaInstitution: p.DiplomaInstitution,
		DiplomaYear:        p.DiplomaYear,
		Domains:            entity.SplitDomains(p.Domains),
		ExerciseMode:       string(p.ExerciseMode),
		Bio:                p.Bio,
	}
}

func toVerificationResponse(v *entity.Verification) *contract.VerificationResponse {
	if v == nil {
		return nil
	}

	return &contract.VerificationResponse{
		ID:         v.ID,
		Status:     string(v.Status),
		Notes:      v.Notes,
		ReviewedBy: v.ReviewedBy,
		ReviewedAt: utils.FormatEpochPtr(v.ReviewedAt),
		CreatedAt:  utils.FormatEpoch(v.CreatedAt),
	}
}

func toReferenceResponse(r *entity.Reference) *contract.ReferenceResponse {
	if r == nil {
		return nil
	}

	resp := &contract.ReferenceResponse{
		ID:          r.ID,
		ProfileID:   r.ProfileID,
		SponsorID:   r.SponsorID,
		Status:      string(r.Status),
		Comment:     r.Comment,
		RespondedAt: utils.FormatEpochPtr(r.RespondedAt),
		CreatedAt:   utils.FormatEpoch(r.CreatedAt),
	}

	if r.Profile.ID != 0 {
		resp.Applicant = toPublicProfileResponse(&r.Profile)
	}
	return resp
}

func toPaymentResponse(p *entity.Payment) *contract.PaymentResponse {
	if p == nil {
		return nil
	}

	return &contract.PaymentResponse{
		Reference: formatReference(p.Reference),
		Purpose:   string(p.Purpose),
		Amount:    p.Amount,
		Status:    string(p.Status),
		CreatedAt: utils.FormatEpoch(p.CreatedAt),
	}
}

func toSubscriptionResponse(sub *entity.Subscription) *contract.SubscriptionResponse {
	if sub == nil {
		return nil
	}

	return &contract.SubscriptionResponse{
		ID:            sub.ID,
		EntrepriseID:  sub.EntrepriseID,
		Plan:          string(sub.Plan),
		StartsAt:      utils.FormatEpoch(sub.StartsAt),
		ExpiresAt:     utils.FormatEpoch(sub.ExpiresAt),
		IsActive:      sub.IsActive,
		PaymentStatus: string(sub.PaymentStatus),
		VerifiedBy:    sub.VerifiedBy,
		VerifiedAt:    utils.FormatEpochPtr(sub.VerifiedAt),
		AdminNotes:    sub.AdminNotes,
		CreatedAt:     utils.FormatEpoch(sub.CreatedAt),
		Entreprise:    toEntrepriseSummary(&sub.Entreprise),
	}
}

func toPlanResponse(p *plans.Plan) *contract.PlanResponse {
	resp := &contract.PlanResponse{
		Name:         string(p.Name),
		Label:        p.Label,
		Price:        p.Price,
		DurationDays: p.DurationDays,
	}

	if !p.Unlimited() {
		maxOffers := p.MaxOffers
		resp.MaxOffers = &maxOffers
	}
	return resp
}

func toSponsorResponse(s *entity.Sponsor) *contract.SponsorResponse {
	return &contract.SponsorResponse{
		ID:       s.ID,
		Name:     s.Name,
		Website:  s.Website,
		LogoKey:  s.LogoKey,
		Tier:     string(s.Tier),
		IsActive: s.IsActive,
	}
}

// formatReference renders snowflake ids as strings, JavaScript clients
// cannot hold 64-bit integers.
func formatReference(ref int64) string {
	return strconv.FormatInt(ref, 10)
}
