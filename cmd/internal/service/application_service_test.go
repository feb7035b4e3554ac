package service

import (
	"omigec/cmd/internal/contract"
	"omigec/cmd/internal/domain/entity"
	"omigec/cmd/internal/utils/apierror"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (h *harness) publishJob(t *testing.T) (*entity.User, *contract.JobResponse) {
	t.Helper()
	user, _ := h.seedEntreprise(t, entity.EntrepriseStatusValid)
	h.subscribe(t, user, "starter")
	job, apierr := h.jobs.CreateJob(user, jobRequest("Ingénieur réseaux", "2026-04-01", "telecom"))
	require.Nil(t, apierr)
	return user, job
}

func TestApplicationService_ApplyAndDecide(t *testing.T) {
	h := newHarness(t)
	owner, job := h.publishJob(t)
	engineer, profile := h.seedEngineer(t, entity.ProfileStatusValidated, nil)

	app, apierr := h.apps.Apply(engineer, job.ID, &contract.ApplicationRequest{CoverLetter: "Motivé"})
	require.Nil(t, apierr)
	assert.Equal(t, string(entity.ApplicationPending), app.Status)
	assert.Equal(t, profile.ID, app.EngineerID)
	require.NotNil(t, app.Job)

	_, apierr = h.apps.Apply(engineer, job.ID, &contract.ApplicationRequest{})
	assert.Equal(t, apierror.AlreadyAppliedError, apierr)

	mine, apierr := h.apps.ListMyApplications(engineer)
	require.Nil(t, apierr)
	require.Len(t, mine, 1)
	require.NotNil(t, mine[0].Job)
	assert.NotNil(t, mine[0].Job.Entreprise)

	received, apierr := h.apps.ListJobApplications(owner, job.ID)
	require.Nil(t, apierr)
	require.Len(t, received, 1)
	require.NotNil(t, received[0].Engineer)
	assert.Equal(t, profile.FullName, received[0].Engineer.FullName)

	decided, apierr := h.apps.DecideApplication(owner, app.ID, &contract.ApplicationDecisionRequest{Accept: boolPtr(true)})
	require.Nil(t, apierr)
	assert.Equal(t, string(entity.ApplicationAccepted), decided.Status)

	_, apierr = h.apps.DecideApplication(owner, app.ID, &contract.ApplicationDecisionRequest{Accept: boolPtr(false)})
	assert.Equal(t, apierror.InvalidTransition, apierr)
}

func TestApplicationService_Gates(t *testing.T) {
	h := newHarness(t)
	owner, job := h.publishJob(t)
	other, _ := h.seedEntreprise(t, entity.EntrepriseStatusValid)
	pending, _ := h.seedEngineer(t, entity.ProfileStatusPendingDocs, nil)
	validated, _ := h.seedEngineer(t, entity.ProfileStatusValidated, nil)

	_, apierr := h.apps.Apply(pending, job.ID, &contract.ApplicationRequest{})
	assert.Equal(t, apierror.ProfileNotValidatedError, apierr)

	_, apierr = h.apps.Apply(owner, job.ID, &contract.ApplicationRequest{})
	assert.Equal(t, apierror.WrongRoleError, apierr)

	_, apierr = h.apps.Apply(validated, 9999, &contract.ApplicationRequest{})
	assert.Equal(t, apierror.NotFoundError, apierr)

	_, apierr = h.apps.ListJobApplications(other, job.ID)
	assert.Equal(t, apierror.NotOwnerError, apierr)

	app, apierr := h.apps.Apply(validated, job.ID, &contract.ApplicationRequest{})
	require.Nil(t, apierr)

	_, apierr = h.apps.DecideApplication(other, app.ID, &contract.ApplicationDecisionRequest{Accept: boolPtr(true)})
	assert.Equal(t, apierror.NotOwnerError, apierr)

	_, apierr = h.apps.DecideApplication(owner, app.ID, &contract.ApplicationDecisionRequest{})
	require.NotNil(t, apierr)
	assert.Equal(t, 400, apierr.Code())
}

func TestApplicationService_ClosedJob(t *testing.T) {
	h := newHarness(t)
	owner, job := h.publishJob(t)
	engineer, _ := h.seedEngineer(t, entity.ProfileStatusValidated, nil)

	require.Nil(t, h.jobs.DeleteJob(owner, job.ID))
	_, apierr := h.apps.Apply(engineer, job.ID, &contract.ApplicationRequest{})
	assert.Equal(t, apierror.JobClosedError, apierr)

	_, open := h.publishJob(t)
	h.clock = mustDate(t, "2026-04-02")
	_, apierr = h.apps.Apply(engineer, open.ID, &contract.ApplicationRequest{})
	assert.Equal(t, apierror.JobClosedError, apierr)
}
