package service

import (
	"context"
	"io"
	"mime/multipart"
	"omigec/cmd/internal/contract"
	"omigec/cmd/internal/infrastructure/aws/storage"
	"omigec/cmd/internal/utils"
	"omigec/cmd/internal/utils/apierror"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
)

const (
	PathDocuments = "documents/"
	PathSponsors  = "sponsors/"
)

func checkFile(fileHeader *multipart.FileHeader, maxBytes int64, valid []string) apierror.ErrorResponse {
	if fileHeader.Size > maxBytes {
		return apierror.NewFileTooLargeError(maxBytes)
	}

	if strings.TrimSpace(fileHeader.Filename) == "" {
		return apierror.MissingFileNameError
	}

	if ext, ok := utils.CheckFileExt(fileHeader.Filename, valid); !ok {
		return apierror.NewInvalidFileExtError(ext)
	}
	return nil
}

func checkDocument(fileHeader *multipart.FileHeader) apierror.ErrorResponse {
	return checkFile(fileHeader, contract.MaxDocumentSizeBytes, contract.ValidDocumentTypes)
}

func readFile(fileHeader *multipart.FileHeader) ([]byte, apierror.ErrorResponse) {
	file, err := fileHeader.Open()
	if err != nil {
		log.Errorf("failed to open file: %v", err)
		return nil, apierror.InternalServerError
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		log.Errorf("failed to read file: %v", err)
		return nil, apierror.InternalServerError
	}
	return bytes, nil
}

// uploadFile stores the file under 'prefix' with a fresh UUID name, keeping
// the original extension, and returns the object key.
func uploadFile(ctx context.Context, s3 storage.S3Client, prefix string, fileHeader *multipart.FileHeader) (string, apierror.ErrorResponse) {
	bytes, apierr := readFile(fileHeader)
	if apierr != nil {
		return "", apierr
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	key, err := s3.UploadFile(ctx, bytes, prefix+uuid.NewString()+ext)
	if err != nil {
		log.Errorf("failed to upload file to %s: %v", prefix, err)
		return "", apierror.NewUpstreamError("de stockage", err)
	}
	return key, nil
}
