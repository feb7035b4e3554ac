package handler

import (
	"context"
	"net/http"
	"omigec/cmd/internal/contract"
	"omigec/cmd/internal/domain/entity"
	"omigec/cmd/internal/infrastructure/aws/storage"
	"omigec/cmd/internal/utils"
	"omigec/cmd/internal/utils/apierror"
	"strconv"

	"github.com/labstack/echo/v4"
)

type VerificationService interface {
	ListEngineers(actor *entity.User, query *contract.AdminListQuery) (*contract.EngineerListResponse, apierror.ErrorResponse)
	GetEngineer(actor *entity.User, profileID int64) (*contract.EngineerDetailResponse, apierror.ErrorResponse)
	ReviewDocuments(actor *entity.User, profileID int64, req *contract.ReviewRequest) (*contract.EngineerDetailResponse, apierror.ErrorResponse)
	ListPendingReferences(actor *entity.User) ([]*contract.ReferenceResponse, apierror.ErrorResponse)
	RespondReference(actor *entity.User, referenceID int64, req *contract.RespondReferenceRequest) (*contract.ReferenceResponse, apierror.ErrorResponse)
	GetDocument(ctx context.Context, actor *entity.User, profileID int64, kind entity.DocumentKind) (*storage.Object, apierror.ErrorResponse)
	GetMyDocument(ctx context.Context, actor *entity.User, kind entity.DocumentKind) (*storage.Object, apierror.ErrorResponse)
}

type DefaultVerificationRoute struct {
	VerificationService VerificationService
}

func NewVerificationDefault(verificationService VerificationService) *DefaultVerificationRoute {
	return &DefaultVerificationRoute{VerificationService: verificationService}
}

func (v *DefaultVerificationRoute) ListEngineers(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	var query contract.AdminListQuery
	if err := c.Bind(&query); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	list, apierr := v.VerificationService.ListEngineers(user, &query)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, list)
}

func (v *DefaultVerificationRoute) GetEngineer(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	id, apierr := pathID(c, "id")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	detail, apierr := v.VerificationService.GetEngineer(user, id)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, detail)
}

func (v *DefaultVerificationRoute) ReviewDocuments(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	id, apierr := pathID(c, "id")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	var req contract.ReviewRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	detail, apierr := v.VerificationService.ReviewDocuments(user, id, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, detail)
}

func (v *DefaultVerificationRoute) ListPendingReferences(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	refs, apierr := v.VerificationService.ListPendingReferences(user)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, echo.Map{"references": refs})
}

func (v *DefaultVerificationRoute) RespondReference(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	id, apierr := pathID(c, "id")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	var req contract.RespondReferenceRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	ref, apierr := v.VerificationService.RespondReference(user, id, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, ref)
}

// GetDocument proxies a document of any engineer to an authorized admin.
func (v *DefaultVerificationRoute) GetDocument(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	id, apierr := pathID(c, "id")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	obj, apierr := v.VerificationService.GetDocument(c.Request().Context(), user, id, entity.DocumentKind(c.Param("kind")))
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return streamObject(c, obj)
}

func (v *DefaultVerificationRoute) GetMyDocument(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	obj, apierr := v.VerificationService.GetMyDocument(c.Request().Context(), user, entity.DocumentKind(c.Param("kind")))
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return streamObject(c, obj)
}

// streamObject copies the object to the response without buffering it.
// Documents are private, so the response must not be cached.
func streamObject(c echo.Context, obj *storage.Object) error {
	defer obj.Body.Close()

	header := c.Response().Header()
	header.Set("Cache-Control", "private, no-store")
	if obj.ContentLength > 0 {
		header.Set(echo.HeaderContentLength, strconv.FormatInt(obj.ContentLength, 10))
	}

	contentType := obj.ContentType
	if contentType == "" {
		contentType = echo.MIMEOctetStream
	}
	return c.Stream(http.StatusOK, contentType, obj.Body)
}
