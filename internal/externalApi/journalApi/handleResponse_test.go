package journalApi

import (
	"errors"
	"net/http"
	"testing"

	"github.com/JoeOster/stock-tracker-app-v2-sub001/internal/externalApi"
	"github.com/JoeOster/stock-tracker-app-v2-sub001/internal/model/apiModel"
)

func TestDecodeResponseNoContent(t *testing.T) {
	var out apiModel.OperationResult

	err := decodeResponse(http.StatusNoContent, "204 No Content", "", nil, &out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out.Message != "Operation successful." {
		t.Errorf("expected synthetic success message, got %q", out.Message)
	}
}

func TestDecodeResponseErrorWithJSONMessage(t *testing.T) {
	body := []byte(`{"message": "Account holder X already exists."}`)

	err := decodeResponse(http.StatusConflict, "409 Conflict", "application/json", body, nil)
	if err == nil {
		t.Fatal("expected error")
	}

	if err.Error() != "Account holder X already exists." {
		t.Errorf("expected backend message surfaced verbatim, got %q", err.Error())
	}
}

func TestDecodeResponseErrorWithoutMessageFallsBackToStatus(t *testing.T) {
	err := decodeResponse(http.StatusInternalServerError, "500 Internal Server Error", "text/html", []byte("<html>oops</html>"), nil)
	if err == nil {
		t.Fatal("expected error")
	}

	if err.Error() != "500 Internal Server Error" {
		t.Errorf("expected status text fallback, got %q", err.Error())
	}
}

func TestDecodeResponseNotFoundWrapsSentinel(t *testing.T) {
	err := decodeResponse(http.StatusNotFound, "404 Not Found", "application/json", []byte(`{"message":"no such source"}`), nil)
	if err == nil {
		t.Fatal("expected error")
	}

	if !errors.Is(err, externalApi.ErrNotFound) {
		t.Errorf("404 must wrap ErrNotFound, got %v", err)
	}
}

func TestDecodeResponseSuccessJSON(t *testing.T) {
	var out apiModel.OperationResult

	err := decodeResponse(http.StatusOK, "200 OK", "application/json", []byte(`{"message":"Transaction created."}`), &out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out.Message != "Transaction created." {
		t.Errorf("got %q", out.Message)
	}
}

func TestDecodeResponsePlainTextBody(t *testing.T) {
	var out apiModel.OperationResult

	err := decodeResponse(http.StatusOK, "200 OK", "text/plain; charset=utf-8", []byte("Order cancelled.\n"), &out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out.Message != "Order cancelled." {
		t.Errorf("expected plain body wrapped as message, got %q", out.Message)
	}
}

func TestDecodeResponsePlainTextThatIsValidJSON(t *testing.T) {
	var out apiModel.OperationResult

	// servers occasionally mislabel JSON as text/plain
	err := decodeResponse(http.StatusOK, "200 OK", "text/plain", []byte(`{"message":"ok"}`), &out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out.Message != "ok" {
		t.Errorf("mislabeled JSON must still decode as JSON, got %q", out.Message)
	}
}

func TestDecodeResponseNilOut(t *testing.T) {
	if err := decodeResponse(http.StatusOK, "200 OK", "application/json", []byte(`{"anything":1}`), nil); err != nil {
		t.Errorf("nil out must skip decoding: %v", err)
	}
}
