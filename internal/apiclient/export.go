package apiclient

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	apperrors "github.com/aquaflow/aquaflow-ui/internal/errors"
)

// SpreadsheetContentType is the MIME type of export payloads.
const SpreadsheetContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportKind names an exportable resource.
type ExportKind string

const (
	ExportBatches    ExportKind = "batches"
	ExportPayments   ExportKind = "payments"
	ExportProcessing ExportKind = "processing"
)

// ParseExportKind normalizes and validates an export kind.
func ParseExportKind(value string) (ExportKind, bool) {
	k := ExportKind(strings.ToLower(strings.TrimSpace(value)))
	switch k {
	case ExportBatches, ExportPayments, ExportProcessing:
		return k, true
	default:
		return "", false
	}
}

// Download is a fully buffered export ready to hand to the browser.
type Download struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportAPI covers /export.
type ExportAPI struct{ c *Client }

// Download fetches the spreadsheet for kind. The response body is always closed, and the
// file is named <kind>_<YYYY-MM-DD>.xlsx using the client's clock.
func (e *ExportAPI) Download(ctx context.Context, kind ExportKind) (*Download, error) {
	if _, ok := ParseExportKind(string(kind)); !ok {
		return nil, apperrors.ValidationField("kind", fmt.Sprintf("unknown export %q", kind))
	}

	resp, err := e.c.send(ctx, call{
		op:     "export." + string(kind),
		method: http.MethodPost,
		path:   "/export/" + string(kind),
		accept: SpreadsheetContentType,
	})
	if err != nil {
		return nil, err
	}
	defer drainAndClose(resp.Body)

	if !isSpreadsheet(resp.Header.Get("Content-Type")) {
		return nil, apperrors.New(apperrors.ErrCodeRequestFailed, "export is not a spreadsheet")
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, e.c.maxDownload+1))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.MapContextError(err), apperrors.ErrCodeRequestFailed, "read export")
	}
	if int64(len(data)) > e.c.maxDownload {
		return nil, apperrors.New(apperrors.ErrCodeRequestFailed, "export is larger than the download limit")
	}

	return &Download{
		Filename:    ExportFilename(kind, e.c.now()),
		ContentType: SpreadsheetContentType,
		Data:        data,
	}, nil
}

// ExportFilename returns <kind>_<YYYY-MM-DD>.xlsx for the given instant, dated in UTC.
func ExportFilename(kind ExportKind, at time.Time) string {
	return fmt.Sprintf("%s_%s.xlsx", kind, at.UTC().Format(time.DateOnly))
}

// isSpreadsheet accepts the xlsx MIME type and the generic binary type some gateways send.
func isSpreadsheet(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == SpreadsheetContentType || mediaType == "application/octet-stream"
}
