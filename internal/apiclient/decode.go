package apiclient

import (
	"encoding/json"
	"io"
	"net/http"
)

func decodeLimited(resp *http.Response, limit int64, out any) error {
	return json.NewDecoder(io.LimitReader(resp.Body, limit)).Decode(out)
}
