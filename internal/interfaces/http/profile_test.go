package http

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"finclusion/internal/domain/profile"
)

func newProfileHandler(db *memDB, images *memImages, maxFileSize int64) *ProfileHandler {
	return NewProfileHandler(profile.NewService(memProfiles{db}, images), maxFileSize)
}

func seedProfile(db *memDB, id, name string) {
	db.profiles[id] = &profile.Profile{ID: id, Name: name, Email: id + "@example.com"}
}

func multipartImage(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	part, err := mw.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("CreateFormFile() error: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("failed to write part: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("failed to close multipart writer: %v", err)
	}
	return body, mw.FormDataContentType()
}

func TestHandleProfile_Get(t *testing.T) {
	db := newMemDB()
	seedProfile(db, "user-1", "Asha")
	handler := newProfileHandler(db, &memImages{}, 1<<20)

	rr := httptest.NewRecorder()
	handler.HandleProfile(rr, newRequest(http.MethodGet, "/api/profile", nil, "user-1"))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	var p profile.Profile
	decodeEnvelope(t, rr, &p)
	if p.Name != "Asha" || p.ProfileImage != nil {
		t.Errorf("profile = %+v", p)
	}

	rr = httptest.NewRecorder()
	handler.HandleProfile(rr, newRequest(http.MethodGet, "/api/profile", nil, "user-2"))
	if rr.Code != http.StatusNotFound {
		t.Errorf("missing profile status = %d, want %d", rr.Code, http.StatusNotFound)
	}
}

func TestHandleProfile_Update(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		expectedStatus int
		check          func(t *testing.T, p *profile.Profile)
	}{
		{
			name:           "Complete profile",
			body:           `{"name":"  Asha Rao ","dateOfBirth":"1994-07-02","panId":"ABCDE1234F","profileCompleted":true}`,
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, p *profile.Profile) {
				if p.Name != "Asha Rao" || p.PanID != "ABCDE1234F" || p.DateOfBirth != "1994-07-02" || !p.ProfileCompleted {
					t.Errorf("profile = %+v", p)
				}
			},
		},
		{
			name:           "Change email",
			body:           `{"email":"Asha.New@Example.com"}`,
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, p *profile.Profile) {
				if p.Email != "asha.new@example.com" {
					t.Errorf("Email = %q, want %q", p.Email, "asha.new@example.com")
				}
			},
		},
		{
			name:           "Malformed email",
			body:           `{"email":"not-an-address"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Malformed date of birth",
			body:           `{"dateOfBirth":"02/07/1994"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Malformed PAN",
			body:           `{"panId":"1234"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Invalid JSON",
			body:           `{"name":`,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := newMemDB()
			seedProfile(db, "user-1", "Asha")

			req := newRawRequest(http.MethodPut, "/api/profile", strings.NewReader(tt.body), "user-1")
			rr := httptest.NewRecorder()
			newProfileHandler(db, &memImages{}, 1<<20).HandleProfile(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Fatalf("status = %d, want %d (body %s)", rr.Code, tt.expectedStatus, rr.Body.String())
			}
			if tt.check != nil {
				var p profile.Profile
				decodeEnvelope(t, rr, &p)
				tt.check(t, &p)
			}
		})
	}
}

func TestHandleUploadImage(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\nfake-image-bytes")

	tests := []struct {
		name           string
		field          string
		filename       string
		content        []byte
		maxFileSize    int64
		expectedStatus int
		expectedError  string
	}{
		{name: "Success", field: "image", filename: "Avatar.PNG", content: png, maxFileSize: 1 << 20, expectedStatus: http.StatusOK},
		{name: "Not an image", field: "image", filename: "notes.txt", content: []byte("hello"), maxFileSize: 1 << 20, expectedStatus: http.StatusBadRequest, expectedError: "file must be an image"},
		{name: "Wrong field", field: "file", filename: "avatar.png", content: png, maxFileSize: 1 << 20, expectedStatus: http.StatusBadRequest},
		{name: "Too large", field: "image", filename: "avatar.png", content: bytes.Repeat([]byte("x"), 64), maxFileSize: 16, expectedStatus: http.StatusRequestEntityTooLarge, expectedError: "File is too large"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := newMemDB()
			seedProfile(db, "user-1", "Asha")
			images := &memImages{}

			body, contentType := multipartImage(t, tt.field, tt.filename, tt.content)
			req := newRawRequest(http.MethodPost, "/api/profile/upload", body, "user-1")
			req.Header.Set("Content-Type", contentType)

			rr := httptest.NewRecorder()
			newProfileHandler(db, images, tt.maxFileSize).HandleUploadImage(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Fatalf("status = %d, want %d (body %s)", rr.Code, tt.expectedStatus, rr.Body.String())
			}

			var resp UploadImageResponse
			env := decodeEnvelope(t, rr, &resp)
			if tt.expectedError != "" && env.Error != tt.expectedError {
				t.Errorf("error = %q, want %q", env.Error, tt.expectedError)
			}

			if tt.expectedStatus != http.StatusOK {
				if len(images.objects) != 0 {
					t.Error("rejected upload was stored")
				}
				return
			}

			if !strings.HasPrefix(resp.ImageURL, "https://storage.example.com/profile-images/user-1-") || !strings.HasSuffix(resp.ImageURL, ".png") {
				t.Errorf("ImageURL = %q", resp.ImageURL)
			}
			if resp.Profile == nil || resp.Profile.ProfileImage == nil || *resp.Profile.ProfileImage != resp.ImageURL {
				t.Errorf("profile image not updated: %+v", resp.Profile)
			}
			if len(images.objects) != 1 {
				t.Errorf("stored %d objects, want 1", len(images.objects))
			}
		})
	}
}
