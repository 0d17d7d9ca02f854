package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func decodeBody(t *testing.T, recorder *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body failed: %v", err)
	}
	return body
}

func TestSuccessAttachesStatusAndRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Set(KeyRequestID, "req-1")

	Success(c, gin.H{"Объектов обновлено": 1})

	if recorder.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", recorder.Code)
	}
	body := decodeBody(t, recorder)
	if body[KeyStatus] != true || body["Объектов обновлено"] != float64(1) || body[KeyRequestID] != "req-1" {
		t.Fatalf("unexpected body: %v", body)
	}
}

func TestErrorUsesHTTPStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)

	ErrorWithFields(c, CodeForbidden, gin.H{"password": []string{"too short"}})

	if recorder.Code != http.StatusForbidden {
		t.Fatalf("unexpected status: %d", recorder.Code)
	}
	body := decodeBody(t, recorder)
	if body[KeyStatus] != false {
		t.Fatalf("expected Status=false, got %v", body)
	}
	if _, ok := body[KeyRequestID]; ok {
		t.Fatalf("request_id should be omitted without middleware")
	}
	errs, ok := body[KeyErrors].(map[string]interface{})
	if !ok || errs["password"] == nil {
		t.Fatalf("unexpected Errors: %v", body[KeyErrors])
	}
}

func TestNewPagination(t *testing.T) {
	p := NewPagination(2, 20, 41)
	if p.TotalPage != 3 {
		t.Fatalf("total page want 3 got %d", p.TotalPage)
	}
	if NewPagination(1, 0, 10).TotalPage != 0 {
		t.Fatalf("zero page size should give zero pages")
	}
}

func TestAppErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := WrapError(CodeInternal, "internal", cause)
	if !errors.Is(err, cause) || err.Error() != "internal: boom" {
		t.Fatalf("unexpected app error: %v", err)
	}
}
