package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"pdffusion/billing"
	"pdffusion/logging"
	"pdffusion/pdf"
)

// operation transforms inFile into outFile
type operation func(ctx context.Context, inFile, outFile string) error

func (s *Server) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":     "healthy",
		"service":    "pdffusion",
		"engine":     s.engine.Name(),
		"cli":        s.readiness.State.String(),
		"cli_detail": s.readiness.Reason,
	})
}

func (s *Server) HandleInspect(c *gin.Context) {
	file, header, err := s.formPDF(c)
	if err != nil {
		respondError(c, err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respondError(c, internalError("Failed to read upload", err))
		return
	}

	result, err := pdf.Inspect(data, s.cfg.PreviewChars)
	if err != nil {
		respondError(c, newAppError(CodeUnprocessable, http.StatusUnprocessableEntity, "Could not read PDF"))
		return
	}

	logging.FromContext(c.Request.Context()).Info("inspected",
		logging.F("file", sanitizeFilename(header.Filename)),
		logging.F("pages", result.PageCount),
		logging.F("size", result.Size),
	)
	c.JSON(http.StatusOK, result)
}

func (s *Server) HandleOrganize(c *gin.Context) {
	order := c.PostForm("order")

	s.handlePDFFile(c, "organized", func(ctx context.Context, inFile, outFile string) error {
		result, err := pdf.Organize(ctx, s.engine, inFile, outFile, order)
		if result != nil {
			if len(result.Warnings) > 0 {
				if encoded, encErr := json.Marshal(headerWarnings(result.Warnings)); encErr == nil {
					c.Header(WarningsHeader, string(encoded))
					c.Header(WarningsTotalHeader, strconv.Itoa(len(result.Warnings)))
				}
			}
			logging.FromContext(ctx).Debug("page order parsed",
				logging.F("order", order),
				logging.F("total_pages", result.TotalPages),
				logging.F("selected", len(result.Indices)),
				logging.F("warnings", len(result.Warnings)),
			)
		}
		return err
	})
}

// headerWarnings keeps the first MaxHeaderWarnings warnings with short tokens
func headerWarnings(warnings []pdf.TokenWarning) []pdf.TokenWarning {
	out := make([]pdf.TokenWarning, 0, min(len(warnings), MaxHeaderWarnings))
	for _, w := range warnings[:min(len(warnings), MaxHeaderWarnings)] {
		if runes := []rune(w.Token); len(runes) > maxWarningTokenLength {
			w.Token = string(runes[:maxWarningTokenLength]) + "…"
		}
		out = append(out, w)
	}
	return out
}

func (s *Server) HandleRemovePages(c *gin.Context) {
	pagesParam := c.PostForm("pages")
	if pagesParam == "" {
		respondError(c, badRequest("No pages specified"))
		return
	}

	s.handlePDFFile(c, "pages_removed", func(ctx context.Context, inFile, outFile string) error {
		return pdf.RemovePages(ctx, s.engine, inFile, outFile, pagesParam)
	})
}

func (s *Server) HandleRotate(c *gin.Context) {
	degrees, err := strconv.Atoi(c.PostForm("degrees"))
	if err != nil {
		respondError(c, badRequest("degrees must be an integer such as 90, 180 or 270"))
		return
	}
	pages := c.PostForm("pages")

	s.handlePDFFile(c, "rotated", func(ctx context.Context, inFile, outFile string) error {
		return pdf.Rotate(ctx, s.engine, inFile, outFile, degrees, pages)
	})
}

func (s *Server) HandleResave(c *gin.Context) {
	s.handlePDFFile(c, "resaved", func(ctx context.Context, inFile, outFile string) error {
		return pdf.Resave(ctx, s.engine, inFile, outFile)
	})
}

func (s *Server) HandleRemoveWatermarks(c *gin.Context) {
	s.handlePDFFile(c, "watermarks_removed", func(ctx context.Context, inFile, outFile string) error {
		return pdf.RemoveWatermarks(ctx, s.engine, inFile, outFile)
	})
}

func (s *Server) HandleMerge(c *gin.Context) {
	ent := currentEntitlement(c)
	maxSize, maxFiles := s.cfg.MaxFileSize, s.cfg.MaxMergeFiles
	if ent.Pro {
		maxSize, maxFiles = s.cfg.ProMaxFileSize, s.cfg.ProMaxMergeFiles
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSize*int64(maxFiles)+multipartSlack)

	form, err := c.MultipartForm()
	if err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			respondError(c, err)
			return
		}
		respondError(c, badRequest("No PDF files provided"))
		return
	}
	headers := form.File["pdfs"]
	if len(headers) < 2 {
		respondError(c, fmt.Errorf("%w, got %d", pdf.ErrTooFewInputs, len(headers)))
		return
	}
	if len(headers) > maxFiles {
		respondError(c, badRequest(fmt.Sprintf("At most %d files can be merged on your plan", maxFiles)))
		return
	}

	temps, err := newTempFiles(s.cfg.TempDir)
	if err != nil {
		respondError(c, internalError("Failed to create temp directory", err))
		return
	}
	defer temps.cleanup()

	// Reserve paths up front so inputs keep upload order
	inFiles := make([]string, len(headers))
	for i := range headers {
		inFiles[i] = temps.path(fmt.Sprintf("merge_%02d", i))
	}

	var g errgroup.Group
	for i, header := range headers {
		i, header := i, header
		g.Go(func() error {
			return saveUploadTo(header, inFiles[i], maxSize)
		})
	}
	if err := g.Wait(); err != nil {
		respondError(c, err)
		return
	}

	outFile := temps.path("merged")
	if err := pdf.Merge(c.Request.Context(), s.engine, inFiles, outFile); err != nil {
		respondError(c, err)
		return
	}

	s.sendPDF(c, outFile, downloadName(headers[0].Filename, "merged"))
}

func (s *Server) HandlePayFastITN(c *gin.Context) {
	logger := logging.FromContext(c.Request.Context())

	body, err := c.GetRawData()
	if err != nil {
		respondError(c, badRequest("Unreadable notification"))
		return
	}
	itn, err := billing.ParseITN(string(body))
	if err != nil {
		respondError(c, badRequest("Malformed notification"))
		return
	}
	if err := itn.Verify(s.cfg.PayFastPassphrase); err != nil {
		logger.Warn("rejected PayFast notification", logging.F("error", err), logging.F("client_ip", c.ClientIP()))
		respondError(c, newAppError(CodeInvalidSignature, http.StatusBadRequest, "Invalid signature"))
		return
	}

	logger.Info("PayFast notification",
		logging.F("m_payment_id", itn.Get("m_payment_id")),
		logging.F("pf_payment_id", itn.Get("pf_payment_id")),
		logging.F("payment_status", itn.Get("payment_status")),
		logging.F("subscriber", itn.Get("custom_str1")),
		logging.F("complete", itn.Complete()),
	)
	c.Status(http.StatusOK)
}

// uploadLimit is the per-file size limit for the caller's plan
func (s *Server) uploadLimit(c *gin.Context) int64 {
	if currentEntitlement(c).Pro {
		return s.cfg.ProMaxFileSize
	}
	return s.cfg.MaxFileSize
}

// formPDF returns the validated "pdf" upload
func (s *Server) formPDF(c *gin.Context) (multipart.File, *multipart.FileHeader, error) {
	maxSize := s.uploadLimit(c)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSize+multipartSlack)

	file, header, err := c.Request.FormFile("pdf")
	if err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			return nil, nil, err
		}
		return nil, nil, badRequest("No PDF file provided")
	}
	if err := validatePDFFile(file, header, maxSize); err != nil {
		file.Close()
		return nil, nil, badRequest(err.Error())
	}
	return file, header, nil
}

func saveUploadTo(header *multipart.FileHeader, path string, maxSize int64) error {
	file, err := header.Open()
	if err != nil {
		return internalError("Failed to open upload", err)
	}
	defer file.Close()

	if err := validatePDFFile(file, header, maxSize); err != nil {
		return badRequest(err.Error())
	}
	if err := writeFile(file, path); err != nil {
		return internalError("Failed to save input file", err)
	}
	return nil
}

// handlePDFFile runs op on the uploaded "pdf" file and sends the result
func (s *Server) handlePDFFile(c *gin.Context, suffix string, op operation) {
	file, header, err := s.formPDF(c)
	if err != nil {
		respondError(c, err)
		return
	}
	defer file.Close()

	temps, err := newTempFiles(s.cfg.TempDir)
	if err != nil {
		respondError(c, internalError("Failed to create temp directory", err))
		return
	}
	defer temps.cleanup()

	inFile, err := temps.save(file, "input")
	if err != nil {
		respondError(c, internalError("Failed to save input file", err))
		return
	}
	outFile := temps.path("output_" + suffix)

	if err := op(c.Request.Context(), inFile, outFile); err != nil {
		respondError(c, err)
		return
	}

	s.sendPDF(c, outFile, downloadName(header.Filename, suffix))
}

// sendPDF streams outFile as an attachment
func (s *Server) sendPDF(c *gin.Context, outFile, filename string) {
	c.Header("Content-Type", "application/pdf")
	c.FileAttachment(outFile, filename)
}
