// Package client is the browser-core counterpart of the API server: it owns
// the session, enforces the login-tab role policy, runs the password
// recovery flow and exposes the role-scoped scan lifecycle views.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/shahbazzubair/hair-follicle-detection-system/internal/utils"
)

// ErrEmailRegistered maps the signup conflict response.
var ErrEmailRegistered = errors.New("email already registered")

type Client struct {
	baseURL    string
	httpClient *http.Client
	Session    *SessionStore
}

func New(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{},
		Session:    NewSessionStore(),
	}
}

// --- Projections fetched per role ---

type Doctor struct {
	FullName       string `json:"fullName"`
	Email          string `json:"email"`
	Specialization string `json:"specialization"`
	Phone          string `json:"phone"`
}

type Scan struct {
	ID          string `json:"id"`
	PatientName string `json:"patientName"`
	DoctorID    string `json:"doctorId"`
	ImagePath   string `json:"imagePath"`
	Status      string `json:"status"`
}

type Report struct {
	ID            string `json:"id"`
	ScanID        string `json:"scanId"`
	PatientName   string `json:"patientName"`
	DoctorID      string `json:"doctorId"`
	ImagePath     string `json:"imagePath"`
	BaldnessStage string `json:"baldnessStage"`
	Status        string `json:"status"`
}

// RoleData is the scans/reports projection both dashboards refresh after
// every mutating action.
type RoleData struct {
	Scans   []Scan   `json:"scans"`
	Reports []Report `json:"reports"`
}

type AccountRecord struct {
	ID             string `json:"id"`
	FullName       string `json:"fullName"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Role           string `json:"role"`
	Status         string `json:"status"`
	Specialization string `json:"specialization,omitempty"`
	DegreePath     string `json:"degree_path,omitempty"`
}

// DirectResult is ephemeral: the backend persists nothing for it and it
// cannot be queried again.
type DirectResult struct {
	Count   int     `json:"count"`
	Density float64 `json:"density"`
}

// --- Credential Authenticator ---

type loginResponse struct {
	Role     string `json:"role"`
	FullName string `json:"fullName"`
	Token    string `json:"token"`
}

// Authenticate validates credentials against the backend and enforces the
// login-tab policy on top: a valid account whose role differs from the tab
// is rejected with RoleMismatchError unless it is an admin, which passes any
// tab. The caller decides whether to store the returned identity.
func (c *Client) Authenticate(ctx context.Context, email, password string, expectedRole Role) (Identity, error) {
	body, _ := json.Marshal(map[string]string{"email": email, "password": password})

	resp, err := c.send(ctx, http.MethodPost, "/api/auth/login", bytes.NewReader(body), "application/json")
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return Identity{}, ErrInvalidCredentials
	case resp.StatusCode == http.StatusForbidden:
		return Identity{}, ErrAccountPending
	case resp.StatusCode >= 500:
		return Identity{}, ErrServer
	case resp.StatusCode != http.StatusOK:
		return Identity{}, fmt.Errorf("login failed: %s", readErrorMessage(resp.Body))
	}

	var loginResp loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&loginResp); err != nil {
		return Identity{}, ErrServer
	}

	actual := Role(loginResp.Role)
	if actual != expectedRole && actual != RoleAdmin {
		return Identity{}, &RoleMismatchError{Actual: actual}
	}

	return Identity{Role: actual, DisplayName: loginResp.FullName, Token: loginResp.Token}, nil
}

// Login authenticates, writes the session store and returns the dashboard to
// redirect to. On any failure the session store is left untouched.
func (c *Client) Login(ctx context.Context, email, password string, expectedRole Role) (string, error) {
	identity, err := c.Authenticate(ctx, email, password, expectedRole)
	if err != nil {
		return "", err
	}
	c.Session.Set(identity)
	return DashboardFor(identity.Role), nil
}

func (c *Client) Logout() {
	c.Session.Clear()
}

// --- Signup ---

func (c *Client) SignupPatient(ctx context.Context, fullName, email, phone, password string) error {
	if !utils.IsPasswordSecure(password) {
		return &ValidationError{Message: "password does not meet the security checklist"}
	}
	body, _ := json.Marshal(map[string]string{
		"fullName": fullName,
		"email":    email,
		"phone":    phone,
		"password": password,
	})

	resp, err := c.send(ctx, http.MethodPost, "/api/auth/signup/patient", bytes.NewReader(body), "application/json")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()
	return c.signupStatus(resp)
}

func (c *Client) SignupDoctor(ctx context.Context, fullName, email, phone, password, specialization, degreeName string, degree io.Reader) error {
	if !utils.IsPasswordSecure(password) {
		return &ValidationError{Message: "password does not meet the security checklist"}
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	fields := map[string]string{
		"fullName":       fullName,
		"email":          email,
		"phone":          phone,
		"password":       password,
		"specialization": specialization,
	}
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return err
		}
	}
	part, err := writer.CreateFormFile("degree", degreeName)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, degree); err != nil {
		return err
	}
	if err := writer.Close(); err != nil {
		return err
	}

	resp, err := c.send(ctx, http.MethodPost, "/api/auth/signup/doctor", &body, writer.FormDataContentType())
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()
	return c.signupStatus(resp)
}

func (c *Client) signupStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusCreated:
		return nil
	case resp.StatusCode == http.StatusConflict:
		return ErrEmailRegistered
	case resp.StatusCode >= 500:
		return ErrServer
	default:
		return &ValidationError{Message: readErrorMessage(resp.Body)}
	}
}

// --- Password Recovery Flow ---

// RequestPasswordReset starts the recovery flow. The outcome is neutral on
// purpose: it never reveals whether the email is registered.
func (c *Client) RequestPasswordReset(ctx context.Context, email string) error {
	body, _ := json.Marshal(map[string]string{"email": email})

	resp, err := c.send(ctx, http.MethodPost, "/api/auth/forgot-password", bytes.NewReader(body), "application/json")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ErrServer
	}
	return nil
}

// StrengthChecklist exposes the five live predicates the reset form renders.
func StrengthChecklist(password string) utils.StrengthChecklist {
	return utils.CheckPasswordStrength(password)
}

// ResetPassword consumes a reset token. Checklist failures and a confirm
// mismatch are resolved locally; no network call is made for them. A token
// the backend rejects surfaces its message verbatim as a TokenError.
func (c *Client) ResetPassword(ctx context.Context, token, password, confirmPassword string) error {
	if password != confirmPassword {
		return &ValidationError{Message: "passwords do not match"}
	}
	if !utils.IsPasswordSecure(password) {
		return &ValidationError{Message: "password does not meet the security checklist"}
	}

	body, _ := json.Marshal(map[string]string{"password": password})
	resp, err := c.send(ctx, http.MethodPost, "/api/auth/reset-password/"+token, bytes.NewReader(body), "application/json")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		return nil
	case resp.StatusCode >= 500:
		return ErrServer
	default:
		return &TokenError{Message: readErrorMessage(resp.Body)}
	}
}

// --- Scan Lifecycle: patient view ---

// UploadScan creates a Pending scan addressed to the chosen doctor. The
// doctor selection is mandatory and enforced before any network call.
func (c *Client) UploadScan(ctx context.Context, patientName, doctorName, imageName string, image io.Reader) error {
	if doctorName == "" {
		return &ValidationError{Message: "please select a specialist before uploading"}
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if err := writer.WriteField("patientName", patientName); err != nil {
		return err
	}
	if err := writer.WriteField("doctorId", doctorName); err != nil {
		return err
	}
	part, err := writer.CreateFormFile("image", imageName)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, image); err != nil {
		return err
	}
	if err := writer.Close(); err != nil {
		return err
	}

	resp, err := c.send(ctx, http.MethodPost, "/api/analysis/upload", &body, writer.FormDataContentType())
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return c.statusError(resp)
	}
	return nil
}

func (c *Client) PatientData(ctx context.Context, patientName string) (*RoleData, error) {
	return c.fetchRoleData(ctx, "/api/analysis/patient-data/"+patientName)
}

// --- Scan Lifecycle: doctor view ---

func (c *Client) DoctorData(ctx context.Context, doctorName string) (*RoleData, error) {
	return c.fetchRoleData(ctx, "/api/analysis/doctor-data/"+doctorName)
}

func (c *Client) fetchRoleData(ctx context.Context, path string) (*RoleData, error) {
	resp, err := c.send(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.statusError(resp)
	}

	var data RoleData
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, ErrServer
	}
	return &data, nil
}

// ProcessScan triggers analysis of a pending scan. The caller re-fetches the
// doctor projection afterwards; the resulting report is not returned here.
func (c *Client) ProcessScan(ctx context.Context, scanID string) error {
	resp, err := c.send(ctx, http.MethodPut, "/api/analysis/process-patient/"+scanID, nil, "")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.statusError(resp)
	}
	return nil
}

// DirectAnalysis runs the walk-in side channel. The result is ephemeral.
func (c *Client) DirectAnalysis(ctx context.Context, imageName string, image io.Reader) (DirectResult, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("image", imageName)
	if err != nil {
		return DirectResult{}, err
	}
	if _, err := io.Copy(part, image); err != nil {
		return DirectResult{}, err
	}
	if err := writer.Close(); err != nil {
		return DirectResult{}, err
	}

	resp, err := c.send(ctx, http.MethodPost, "/api/analysis/process-direct", &body, writer.FormDataContentType())
	if err != nil {
		return DirectResult{}, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return DirectResult{}, c.statusError(resp)
	}

	var result DirectResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return DirectResult{}, ErrServer
	}
	return result, nil
}

func (c *Client) ListDoctors(ctx context.Context) ([]Doctor, error) {
	resp, err := c.send(ctx, http.MethodGet, "/api/doctors/list", nil, "")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.statusError(resp)
	}

	var doctors []Doctor
	if err := json.NewDecoder(resp.Body).Decode(&doctors); err != nil {
		return nil, ErrServer
	}
	return doctors, nil
}

// --- Admin view ---

func (c *Client) ListAccounts(ctx context.Context) ([]AccountRecord, error) {
	resp, err := c.send(ctx, http.MethodGet, "/api/admin/users", nil, "")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.statusError(resp)
	}

	var records []AccountRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, ErrServer
	}
	return records, nil
}

// VerifyDoctor transitions a pending doctor to Verified. The confirmation
// dialog before calling this is the UI's responsibility.
func (c *Client) VerifyDoctor(ctx context.Context, accountID string) error {
	body, _ := json.Marshal(map[string]string{"status": "Verified"})

	resp, err := c.send(ctx, http.MethodPut, "/api/admin/verify-doctor/"+accountID, bytes.NewReader(body), "application/json")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.statusError(resp)
	}
	return nil
}

func (c *Client) DeleteAccount(ctx context.Context, accountID string) error {
	resp, err := c.send(ctx, http.MethodDelete, "/api/admin/delete-user/"+accountID, nil, "")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.statusError(resp)
	}
	return nil
}

// --- Report Exporter fetch ---

// ExportReport downloads the rendered PDF for a completed report. Any
// failure is returned to the caller; an export never fails silently.
func (c *Client) ExportReport(ctx context.Context, reportID string) ([]byte, error) {
	resp, err := c.send(ctx, http.MethodGet, "/api/analysis/report/"+reportID+"/export", nil, "")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.statusError(resp)
	}
	return io.ReadAll(resp.Body)
}

// --- plumbing ---

func (c *Client) send(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if identity, ok := c.Session.Get(); ok && identity.Token != "" {
		req.Header.Set("Authorization", "Bearer "+identity.Token)
	}
	return c.httpClient.Do(req)
}

func (c *Client) statusError(resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode >= 500:
		return ErrServer
	default:
		return fmt.Errorf("request failed: %s", readErrorMessage(resp.Body))
	}
}

func readErrorMessage(r io.Reader) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(r).Decode(&payload); err != nil || payload.Error == "" {
		return "request failed"
	}
	return payload.Error
}
