package service

import (
	"omigec/cmd/internal/contract"
	"omigec/cmd/internal/domain/entity"
	"omigec/cmd/internal/utils/apierror"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntrepriseService_Lifecycle(t *testing.T) {
	h := newHarness(t)
	admin := h.seedAdmin(t, entity.PermissionManageEntreprises)
	_, ent := h.seedEntreprise(t, entity.EntrepriseStatusPending)

	resp, apierr := h.entreprises.ValidateEntreprise(admin, ent.ID)
	require.Nil(t, apierr)
	assert.Equal(t, string(entity.EntrepriseStatusValid), resp.Status)

	resp, apierr = h.entreprises.SuspendEntreprise(admin, ent.ID, &contract.StatusReasonRequest{Reason: "Impayés"})
	require.Nil(t, apierr)
	assert.Equal(t, string(entity.EntrepriseStatusSuspended), resp.Status)
	assert.Equal(t, "Impayés", resp.StatusReason)

	_, apierr = h.entreprises.SuspendEntreprise(admin, ent.ID, &contract.StatusReasonRequest{})
	assert.Equal(t, apierror.InvalidTransition, apierr)

	resp, apierr = h.entreprises.ValidateEntreprise(admin, ent.ID)
	require.Nil(t, apierr)
	assert.Empty(t, resp.StatusReason)

	stored, err := h.ents.FindByID(ent.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.EntrepriseStatusValid, stored.Status)
}

func TestEntrepriseService_Reject(t *testing.T) {
	h := newHarness(t)
	admin := h.seedAdmin(t, entity.PermissionManageEntreprises)
	_, pending := h.seedEntreprise(t, entity.EntrepriseStatusPending)
	_, valid := h.seedEntreprise(t, entity.EntrepriseStatusValid)

	_, apierr := h.entreprises.RejectEntreprise(admin, pending.ID, &contract.StatusReasonRequest{Reason: "  "})
	require.NotNil(t, apierr)
	assert.Equal(t, 400, apierr.Code())

	resp, apierr := h.entreprises.RejectEntreprise(admin, pending.ID, &contract.StatusReasonRequest{Reason: "NIF inconnu"})
	require.Nil(t, apierr)
	assert.Equal(t, string(entity.EntrepriseStatusSuspended), resp.Status)
	assert.Equal(t, "NIF inconnu", resp.StatusReason)

	_, apierr = h.entreprises.RejectEntreprise(admin, valid.ID, &contract.StatusReasonRequest{Reason: "Trop tard"})
	assert.Equal(t, apierror.InvalidTransition, apierr)

	_, apierr = h.entreprises.RejectEntreprise(admin, 9999, &contract.StatusReasonRequest{Reason: "Inconnue"})
	assert.Equal(t, apierror.NotFoundError, apierr)
}

func TestEntrepriseService_AdminOnly(t *testing.T) {
	h := newHarness(t)
	verifier := h.seedAdmin(t, entity.PermissionVerifyEngineers)
	root := h.seedAdmin(t, entity.PermissionAdministrator)
	entUser, ent := h.seedEntreprise(t, entity.EntrepriseStatusPending)
	h.seedEntreprise(t, entity.EntrepriseStatusValid)

	_, apierr := h.entreprises.ValidateEntreprise(entUser, ent.ID)
	assert.Equal(t, apierror.WrongRoleError, apierr)

	_, apierr = h.entreprises.ValidateEntreprise(verifier, ent.ID)
	require.NotNil(t, apierr)
	assert.Equal(t, 403, apierr.Code())

	list, apierr := h.entreprises.ListEntreprises(root, &contract.AdminListQuery{Status: "en_attente"})
	require.Nil(t, apierr)
	require.Len(t, list.Entreprises, 1)
	assert.Equal(t, ent.ID, list.Entreprises[0].ID)

	list, apierr = h.entreprises.ListEntreprises(root, &contract.AdminListQuery{})
	require.Nil(t, apierr)
	assert.Equal(t, int64(2), list.Total)

	_, apierr = h.entreprises.ListEntreprises(root, &contract.AdminListQuery{Status: "ferme"})
	require.NotNil(t, apierr)
	assert.Equal(t, 400, apierr.Code())
}

func TestEntrepriseService_UpdateMine(t *testing.T) {
	h := newHarness(t)
	entUser, ent := h.seedEntreprise(t, entity.EntrepriseStatusPending)

	resp, apierr := h.entreprises.UpdateMine(entUser, &contract.UpdateEntrepriseRequest{
		Name:    strPtr(" SNIM "),
		Phone:   strPtr("00222 45 00 11 22"),
		Website: strPtr("https://snim.mr"),
	})
	require.Nil(t, apierr)
	assert.Equal(t, "SNIM", resp.Name)
	assert.Equal(t, "45001122", resp.Phone)
	assert.Equal(t, ent.NIF, resp.NIF)
	assert.Equal(t, string(entity.EntrepriseStatusPending), resp.Status)

	mine, apierr := h.entreprises.GetMine(entUser)
	require.Nil(t, apierr)
	assert.Equal(t, "https://snim.mr", mine.Website)

	engUser, _ := h.seedEngineer(t, entity.ProfileStatusValidated, nil)
	_, apierr = h.entreprises.GetMine(engUser)
	assert.Equal(t, apierror.WrongRoleError, apierr)
}
