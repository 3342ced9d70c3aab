package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"emsi-portal/backend/config"
	"emsi-portal/backend/internal/dto"
	"emsi-portal/backend/internal/model"
	"emsi-portal/backend/internal/projection"
	"emsi-portal/backend/internal/service"
	apperrors "emsi-portal/backend/pkg/errors"
	"emsi-portal/backend/pkg/jwt"
	"emsi-portal/backend/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ═══════════════════════════════════════════════════════════
// Mock Services
// ═══════════════════════════════════════════════════════════

// ── Mock LedgerService ──

type mockLedgerService struct {
	submitReq    *dto.SubmitClaimRequest
	submitResult *model.AbsenceClaim
	submitErr    error
	reviewStatus model.ClaimStatus
	reviewResult *dto.ReviewClaimResponse
	reviewErr    error
	notifyResult *model.NotificationIntent
	notifyErr    error
	getResult    *model.AbsenceClaim
	getErr       error
	byStudent    []model.AbsenceClaim
	counts       projection.StatusCounts
	filterArg    service.ClaimFilter
	filterResult []model.AbsenceClaim
	filterErr    error
}

func (m *mockLedgerService) SubmitClaim(_ context.Context, req *dto.SubmitClaimRequest) (*model.AbsenceClaim, error) {
	m.submitReq = req
	return m.submitResult, m.submitErr
}
func (m *mockLedgerService) ReviewClaim(_ context.Context, _ string, decision model.ClaimStatus) (*dto.ReviewClaimResponse, error) {
	m.reviewStatus = decision
	return m.reviewResult, m.reviewErr
}
func (m *mockLedgerService) Notify(_ context.Context, _, _ string) (*model.NotificationIntent, error) {
	return m.notifyResult, m.notifyErr
}
func (m *mockLedgerService) Get(_ context.Context, _ string) (*model.AbsenceClaim, error) {
	return m.getResult, m.getErr
}
func (m *mockLedgerService) ListByStudent(_ context.Context, _ string) ([]model.AbsenceClaim, error) {
	return m.byStudent, nil
}
func (m *mockLedgerService) ListByStatus(_ context.Context, _ model.ClaimStatus) ([]model.AbsenceClaim, error) {
	return nil, nil
}
func (m *mockLedgerService) CountByStatus(_ context.Context) (projection.StatusCounts, error) {
	return m.counts, nil
}
func (m *mockLedgerService) Filter(_ context.Context, f service.ClaimFilter) ([]model.AbsenceClaim, error) {
	m.filterArg = f
	return m.filterResult, m.filterErr
}

// ── Mock SessionService ──

type mockSessionService struct {
	imported  []model.CourseSession
	importErr error
	body      string
}

func (m *mockSessionService) Add(_ context.Context, _ *dto.SessionRequest) (*model.CourseSession, error) {
	return &model.CourseSession{}, nil
}
func (m *mockSessionService) Update(_ context.Context, _ string, _ *dto.SessionRequest) (*model.CourseSession, error) {
	return &model.CourseSession{}, nil
}
func (m *mockSessionService) Delete(_ context.Context, _ string) error { return nil }
func (m *mockSessionService) List(_ context.Context) ([]model.CourseSession, error) {
	return nil, nil
}
func (m *mockSessionService) ImportICS(_ context.Context, r io.Reader) ([]model.CourseSession, error) {
	b, _ := io.ReadAll(r)
	m.body = string(b)
	return m.imported, m.importErr
}

// ── Mock AssistantService ──

type mockAssistantService struct {
	principal model.Principal
	result    *dto.SendMessageResponse
	err       error
}

func (m *mockAssistantService) Send(_ context.Context, p model.Principal, _ string) (*dto.SendMessageResponse, error) {
	m.principal = p
	return m.result, m.err
}
func (m *mockAssistantService) History(_ context.Context, p model.Principal) ([]model.ChatMessage, error) {
	m.principal = p
	return nil, nil
}

// ── Mock ExportService ──

type mockExportService struct {
	buf      *bytes.Buffer
	filename string
	err      error
}

func (m *mockExportService) Rows(_ context.Context) ([]projection.ExportRow, error) {
	return nil, m.err
}
func (m *mockExportService) CSV(_ context.Context) (*bytes.Buffer, string, error) {
	return m.buf, m.filename, m.err
}
func (m *mockExportService) XLSX(_ context.Context) (*bytes.Buffer, string, error) {
	return m.buf, m.filename, m.err
}
func (m *mockExportService) Overview(_ context.Context, _ model.Principal) (*projection.Overview, error) {
	return &projection.Overview{}, m.err
}
func (m *mockExportService) ClassStats(_ context.Context) ([]projection.ClassStat, error) {
	return nil, m.err
}

// ═══════════════════════════════════════════════════════════
// Test Helpers
// ═══════════════════════════════════════════════════════════

func setupGin() (*gin.Engine, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	_, r := gin.CreateTestContext(w)
	return r, w
}

// withAuth 模拟 JWT 中间件注入身份
func withAuth(id string, role model.Role, next gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", id)
		c.Set("role", string(role))
		next(c)
	}
}

func jsonBody(v interface{}) io.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func parseResponse(w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	json.Unmarshal(w.Body.Bytes(), &resp)
	return resp
}

// ═══════════════════════════════════════════════════════════
// AuthHandler Tests
// ═══════════════════════════════════════════════════════════

func newTestJWT() *jwt.Manager {
	return jwt.NewManager(&config.AuthConfig{JWTSecret: "test-secret", AccessTokenTTL: time.Hour})
}

func TestAuthHandler_DevToken_Disabled(t *testing.T) {
	h := NewAuthHandler(newTestJWT(), time.Hour, false)

	r, w := setupGin()
	r.POST("/auth/dev-token", h.DevToken)
	req := httptest.NewRequest("POST", "/auth/dev-token", jsonBody(dto.DevTokenRequest{UserID: "1", Role: "student"}))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestAuthHandler_DevToken_Success(t *testing.T) {
	mgr := newTestJWT()
	h := NewAuthHandler(mgr, time.Hour, true)

	r, w := setupGin()
	r.POST("/auth/dev-token", h.DevToken)
	req := httptest.NewRequest("POST", "/auth/dev-token", jsonBody(dto.DevTokenRequest{UserID: "1", Role: "supervisor"}))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var body struct {
		Data dto.TokenResponse `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Data.ExpiresIn != 3600 {
		t.Errorf("expected expires_in 3600, got %d", body.Data.ExpiresIn)
	}
	claims, err := mgr.ParseToken(body.Data.AccessToken)
	if err != nil {
		t.Fatalf("token should parse: %v", err)
	}
	if claims.UserID != "1" || claims.Role != "supervisor" {
		t.Errorf("unexpected claims %+v", claims)
	}
}

func TestAuthHandler_DevToken_InvalidRole(t *testing.T) {
	h := NewAuthHandler(newTestJWT(), time.Hour, true)

	r, w := setupGin()
	r.POST("/auth/dev-token", h.DevToken)
	req := httptest.NewRequest("POST", "/auth/dev-token", jsonBody(map[string]string{"user_id": "1", "role": "admin"}))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 10001 {
		t.Errorf("expected code 10001, got %d", resp.Code)
	}
}

func TestAuthHandler_Me_Unauthenticated(t *testing.T) {
	h := NewAuthHandler(newTestJWT(), time.Hour, true)

	r, w := setupGin()
	r.GET("/auth/me", h.Me)
	r.ServeHTTP(w, httptest.NewRequest("GET", "/auth/me", nil))

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// ClaimHandler Tests
// ═══════════════════════════════════════════════════════════

func TestClaimHandler_Submit_StudentUsesOwnID(t *testing.T) {
	mock := &mockLedgerService{submitResult: &model.AbsenceClaim{ClaimID: "c1", Status: model.ClaimPending}}
	h := NewClaimHandler(mock)

	r, w := setupGin()
	r.POST("/claims", withAuth("1", model.RoleStudent, h.SubmitClaim))
	req := httptest.NewRequest("POST", "/claims", jsonBody(dto.SubmitClaimRequest{
		StudentID: "2",
		Subject:   "Mathematics",
		Date:      "2025-04-01",
		Time:      "08:30",
	}))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if mock.submitReq == nil || mock.submitReq.StudentID != "1" {
		t.Errorf("student submission should be bound to caller, got %+v", mock.submitReq)
	}
}

func TestClaimHandler_Submit_SupervisorKeepsBodyStudent(t *testing.T) {
	mock := &mockLedgerService{submitResult: &model.AbsenceClaim{ClaimID: "c1"}}
	h := NewClaimHandler(mock)

	r, w := setupGin()
	r.POST("/claims", withAuth("sup", model.RoleSupervisor, h.SubmitClaim))
	req := httptest.NewRequest("POST", "/claims", jsonBody(dto.SubmitClaimRequest{
		StudentID: "2",
		Subject:   "Physics",
		Date:      "2025-04-01",
		Time:      "10:00",
	}))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}
	if mock.submitReq.StudentID != "2" {
		t.Errorf("expected student 2, got %s", mock.submitReq.StudentID)
	}
}

func TestClaimHandler_Submit_UnknownStudent(t *testing.T) {
	mock := &mockLedgerService{submitErr: apperrors.UnknownStudent("99")}
	h := NewClaimHandler(mock)

	r, w := setupGin()
	r.POST("/claims", withAuth("sup", model.RoleSupervisor, h.SubmitClaim))
	req := httptest.NewRequest("POST", "/claims", jsonBody(dto.SubmitClaimRequest{
		StudentID: "99",
		Subject:   "Physics",
		Date:      "2025-04-01",
		Time:      "10:00",
	}))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != moduleClaim+22 {
		t.Errorf("expected code %d, got %d", moduleClaim+22, resp.Code)
	}
}

func TestClaimHandler_Submit_MissingSubject(t *testing.T) {
	h := NewClaimHandler(&mockLedgerService{})

	r, w := setupGin()
	r.POST("/claims", withAuth("1", model.RoleStudent, h.SubmitClaim))
	req := httptest.NewRequest("POST", "/claims", jsonBody(map[string]string{"date": "2025-04-01", "time": "08:30"}))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestClaimHandler_List_StudentScoped(t *testing.T) {
	mock := &mockLedgerService{}
	h := NewClaimHandler(mock)

	r, w := setupGin()
	r.GET("/claims", withAuth("3", model.RoleStudent, h.ListClaims))
	r.ServeHTTP(w, httptest.NewRequest("GET", "/claims?student_id=1&class_id=1&status=pending&search=math", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	want := service.ClaimFilter{Search: "math", Status: "pending", StudentID: "3"}
	if mock.filterArg != want {
		t.Errorf("expected filter %+v, got %+v", want, mock.filterArg)
	}
}

func TestClaimHandler_List_InvalidStatus(t *testing.T) {
	h := NewClaimHandler(&mockLedgerService{})

	r, w := setupGin()
	r.GET("/claims", withAuth("sup", model.RoleSupervisor, h.ListClaims))
	r.ServeHTTP(w, httptest.NewRequest("GET", "/claims?status=approved", nil))

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestClaimHandler_List_UnknownClass(t *testing.T) {
	h := NewClaimHandler(&mockLedgerService{filterErr: apperrors.NotFound("class", "9")})

	r, w := setupGin()
	r.GET("/claims", withAuth("sup", model.RoleSupervisor, h.ListClaims))
	r.ServeHTTP(w, httptest.NewRequest("GET", "/claims?class_id=9", nil))

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != moduleClaim+4 {
		t.Errorf("expected code %d, got %d", moduleClaim+4, resp.Code)
	}
}

func TestClaimHandler_Get_OtherStudentForbidden(t *testing.T) {
	h := NewClaimHandler(&mockLedgerService{getResult: &model.AbsenceClaim{ClaimID: "c1", StudentID: "2"}})

	r, w := setupGin()
	r.GET("/claims/:id", withAuth("1", model.RoleStudent, h.GetClaim))
	r.ServeHTTP(w, httptest.NewRequest("GET", "/claims/c1", nil))

	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", w.Code)
	}
}

func TestClaimHandler_Counts_StudentOwnOnly(t *testing.T) {
	mock := &mockLedgerService{
		counts: projection.StatusCounts{Total: 10, Pending: 10},
		byStudent: []model.AbsenceClaim{
			{ClaimID: "a", StudentID: "1", Status: model.ClaimPending},
			{ClaimID: "b", StudentID: "1", Status: model.ClaimJustified},
		},
	}
	h := NewClaimHandler(mock)

	r, w := setupGin()
	r.GET("/claims/counts", withAuth("1", model.RoleStudent, h.CountClaims))
	r.ServeHTTP(w, httptest.NewRequest("GET", "/claims/counts", nil))

	var body struct {
		Data projection.StatusCounts `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	want := projection.StatusCounts{Total: 2, Pending: 1, Justified: 1}
	if body.Data != want {
		t.Errorf("expected %+v, got %+v", want, body.Data)
	}
}

func TestClaimHandler_Review_Success(t *testing.T) {
	mock := &mockLedgerService{reviewResult: &dto.ReviewClaimResponse{
		Claim: model.AbsenceClaim{ClaimID: "c1", Status: model.ClaimJustified},
	}}
	h := NewClaimHandler(mock)

	r, w := setupGin()
	r.PUT("/claims/:id/review", h.ReviewClaim)
	req := httptest.NewRequest("PUT", "/claims/c1/review", jsonBody(dto.ReviewClaimRequest{Decision: "justified"}))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if mock.reviewStatus != model.ClaimJustified {
		t.Errorf("expected justified, got %s", mock.reviewStatus)
	}
}

func TestClaimHandler_Review_PendingRejected(t *testing.T) {
	h := NewClaimHandler(&mockLedgerService{})

	r, w := setupGin()
	r.PUT("/claims/:id/review", h.ReviewClaim)
	req := httptest.NewRequest("PUT", "/claims/c1/review", jsonBody(dto.ReviewClaimRequest{Decision: "pending"}))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestClaimHandler_Review_NotFound(t *testing.T) {
	h := NewClaimHandler(&mockLedgerService{reviewErr: apperrors.NotFound("claim", "c9")})

	r, w := setupGin()
	r.PUT("/claims/:id/review", h.ReviewClaim)
	req := httptest.NewRequest("PUT", "/claims/c9/review", jsonBody(dto.ReviewClaimRequest{Decision: "unjustified"}))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestClaimHandler_InternalError(t *testing.T) {
	h := NewClaimHandler(&mockLedgerService{getErr: errors.New("boom")})

	r, w := setupGin()
	r.GET("/claims/:id", withAuth("sup", model.RoleSupervisor, h.GetClaim))
	r.ServeHTTP(w, httptest.NewRequest("GET", "/claims/c1", nil))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// SessionHandler Tests
// ═══════════════════════════════════════════════════════════

const testICS = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nEND:VCALENDAR\r\n"

func TestSessionHandler_ImportICS_Multipart(t *testing.T) {
	mock := &mockSessionService{imported: []model.CourseSession{{SessionID: "s1"}}}
	h := NewSessionHandler(mock)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, _ := mw.CreateFormFile("file", "timetable.ics")
	fw.Write([]byte(testICS))
	mw.Close()

	r, w := setupGin()
	r.POST("/sessions/import", h.ImportICS)
	req := httptest.NewRequest("POST", "/sessions/import", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if mock.body != testICS {
		t.Errorf("service should receive the uploaded file content")
	}

	var body struct {
		Data dto.ImportICSResponse `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &body)
	if body.Data.ImportedCount != 1 {
		t.Errorf("expected imported_count 1, got %d", body.Data.ImportedCount)
	}
}

func TestSessionHandler_ImportICS_RawBody(t *testing.T) {
	mock := &mockSessionService{}
	h := NewSessionHandler(mock)

	r, w := setupGin()
	r.POST("/sessions/import", h.ImportICS)
	req := httptest.NewRequest("POST", "/sessions/import", strings.NewReader(testICS))
	req.Header.Set("Content-Type", "text/calendar")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}
	if mock.body != testICS {
		t.Errorf("service should receive the raw body")
	}
}

func TestSessionHandler_ImportICS_NoFile(t *testing.T) {
	h := NewSessionHandler(&mockSessionService{})

	r, w := setupGin()
	r.POST("/sessions/import", h.ImportICS)
	req := httptest.NewRequest("POST", "/sessions/import", strings.NewReader("{}"))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestSessionHandler_ImportICS_Malformed(t *testing.T) {
	h := NewSessionHandler(&mockSessionService{importErr: apperrors.Invalid("file", "无法解析 ICS 内容")})

	r, w := setupGin()
	r.POST("/sessions/import", h.ImportICS)
	req := httptest.NewRequest("POST", "/sessions/import", strings.NewReader("nope"))
	req.Header.Set("Content-Type", "text/calendar")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != moduleSession+1 {
		t.Errorf("expected code %d, got %d", moduleSession+1, resp.Code)
	}
	if !strings.HasPrefix(resp.Details, "file:") {
		t.Errorf("expected field details, got %q", resp.Details)
	}
}

// ═══════════════════════════════════════════════════════════
// AssistantHandler Tests
// ═══════════════════════════════════════════════════════════

func TestAssistantHandler_Send_UsesCaller(t *testing.T) {
	mock := &mockAssistantService{result: &dto.SendMessageResponse{}}
	h := NewAssistantHandler(mock)

	r, w := setupGin()
	r.POST("/assistant/messages", withAuth("2", model.RoleStudent, h.SendMessage))
	req := httptest.NewRequest("POST", "/assistant/messages", jsonBody(dto.SendMessageRequest{Text: "hi"}))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}
	if mock.principal != (model.Principal{ID: "2", Role: model.RoleStudent}) {
		t.Errorf("unexpected principal %+v", mock.principal)
	}
}

func TestAssistantHandler_Send_EmptyText(t *testing.T) {
	h := NewAssistantHandler(&mockAssistantService{})

	r, w := setupGin()
	r.POST("/assistant/messages", withAuth("2", model.RoleStudent, h.SendMessage))
	req := httptest.NewRequest("POST", "/assistant/messages", jsonBody(dto.SendMessageRequest{}))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// ExportHandler Tests
// ═══════════════════════════════════════════════════════════

func TestExportHandler_CSV_Success(t *testing.T) {
	mock := &mockExportService{
		buf:      bytes.NewBufferString("ID,Nom\n"),
		filename: "students-data.csv",
	}
	h := NewExportHandler(mock)

	r, w := setupGin()
	r.GET("/export/students.csv", h.ExportCSV)
	r.ServeHTTP(w, httptest.NewRequest("GET", "/export/students.csv", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != contentTypeCSV {
		t.Errorf("expected %s, got %s", contentTypeCSV, ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "students-data.csv") {
		t.Errorf("expected filename in disposition, got %s", cd)
	}
	if w.Body.String() != "ID,Nom\n" {
		t.Errorf("unexpected body %q", w.Body.String())
	}
}

func TestExportHandler_XLSX_Error(t *testing.T) {
	h := NewExportHandler(&mockExportService{err: service.ErrExportGenerateFail})

	r, w := setupGin()
	r.GET("/export/students.xlsx", h.ExportXLSX)
	r.ServeHTTP(w, httptest.NewRequest("GET", "/export/students.xlsx", nil))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", w.Code)
	}
}

func TestExportHandler_Overview_RequiresPrincipal(t *testing.T) {
	h := NewExportHandler(&mockExportService{})

	r, w := setupGin()
	r.GET("/overview", h.Overview)
	r.ServeHTTP(w, httptest.NewRequest("GET", "/overview", nil))

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}
