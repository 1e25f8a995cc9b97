package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	customErr "github.com/shiv90154/CarrerPath-sub002/internal/domain/errors"
	"github.com/shiv90154/CarrerPath-sub002/internal/middleware/auth"
	"go.uber.org/zap"
)

// multipartOverhead is the allowance for boundaries and part headers on top of the image.
const multipartOverhead = 64 << 10

type ProofHandler struct {
	proofs ProofUsecase
	logger *zap.Logger
}

func NewProofHandler(proofs ProofUsecase, logger *zap.Logger) *ProofHandler {
	return &ProofHandler{
		proofs: proofs,
		logger: logger,
	}
}

// UploadProof accepts a multipart form with the screenshot in the "file" part.
func (h *ProofHandler) UploadProof(c echo.Context) error {
	user, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}

	orderID, err := parseOrderID(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	limit := h.proofs.MaxBytes()
	req := c.Request()
	req.Body = http.MaxBytesReader(c.Response(), req.Body, limit+multipartOverhead)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return respondError(c, h.logger, customErr.NewRequestTooLargeError(limit))
		}
		return respondError(c, h.logger, customErr.NewInvalidArgumentError("multipart field \"file\" is required"))
	}
	if fileHeader.Size > limit {
		return respondError(c, h.logger, customErr.NewPayloadTooLargeError(fileHeader.Size, limit))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return respondError(c, h.logger, err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, limit+1))
	if err != nil {
		return respondError(c, h.logger, err)
	}

	proof, err := h.proofs.AttachProof(req.Context(), user.Actor(), orderID, data, fileHeader.Header.Get(echo.HeaderContentType))
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(http.StatusCreated, proof)
}

func (h *ProofHandler) GetProof(c echo.Context) error {
	user, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}

	orderID, err := parseOrderID(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	view, err := h.proofs.GetProof(c.Request().Context(), user.Actor(), orderID)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(http.StatusOK, view)
}
