package journalApi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/JoeOster/stock-tracker-app-v2-sub001/internal/externalApi"
	"github.com/JoeOster/stock-tracker-app-v2-sub001/internal/model/apiModel"
	"github.com/go-resty/resty/v2"
)

const successMessage = "Operation successful."

// handleResponse interprets a backend response into out. Status 204 becomes a
// synthetic success result without touching the body. Non-success responses
// become an error carrying the backend's JSON "message" field when present,
// the HTTP status text otherwise. A text/plain body is still tried as JSON
// before being wrapped as a plain message.
func handleResponse(resp *resty.Response, out any) error {
	return decodeResponse(resp.StatusCode(), resp.Status(), resp.Header().Get("Content-Type"), resp.Body(), out)
}

func decodeResponse(statusCode int, status, contentType string, body []byte, out any) error {
	if statusCode == http.StatusNoContent {
		if res, ok := out.(*apiModel.OperationResult); ok {
			res.Message = successMessage
		}
		return nil
	}

	if statusCode < http.StatusOK || statusCode >= http.StatusMultipleChoices {
		message := status
		var errBody struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(body, &errBody); err == nil && errBody.Message != "" {
			message = errBody.Message
		}
		if statusCode == http.StatusNotFound {
			return fmt.Errorf("%w: %s", externalApi.ErrNotFound, message)
		}
		return errors.New(message)
	}

	if out == nil {
		return nil
	}

	if err := json.Unmarshal(body, out); err != nil {
		if strings.HasPrefix(contentType, "text/plain") {
			if res, ok := out.(*apiModel.OperationResult); ok {
				res.Message = strings.TrimSpace(string(body))
				return nil
			}
		}
		return err
	}

	return nil
}
