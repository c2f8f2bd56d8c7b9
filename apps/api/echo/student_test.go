package echoapi

import (
	"net/http"
	"testing"

	"github.com/trezcool/sajili/core/student"
	testutil "github.com/trezcool/sajili/tests"
)

func Test_studentApi_register(t *testing.T) {
	resetDB(t)

	testutil.CreateStudent(t, stdRepo, "000001", "Taken", "taken@university.com", "", nil)

	tests := []httpTest{
		{
			name: "empty payload", body: []byte(`{}`), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{
				"name":             "this field is required",
				"email":            "this field is required",
				"password":         "this field is required",
				"password_confirm": "this field is required",
			}),
		},
		{
			name: "non-university email",
			body: marchallObj(t, student.NewStudent{
				Name: "Jane", Email: "jane@gmail.com", Password: "Secret123", PasswordConfirm: "Secret123",
			}),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"email": "email must end with @university.com"}),
		},
		{
			name: "weak password",
			body: marchallObj(t, student.NewStudent{
				Name: "Jane", Email: "jane@university.com", Password: "weak", PasswordConfirm: "weak",
			}),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{
				"password": "password must start with an uppercase letter and contain at least 5 letters followed by 3 or more digits",
			}),
		},
		{
			name: "duplicate email",
			body: marchallObj(t, student.NewStudent{
				Name: "Jane", Email: "taken@university.com", Password: "Secret123", PasswordConfirm: "Secret123",
			}),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"email": student.ErrEmailExists.Error()}),
		},
		{
			name: "ok",
			body: marchallObj(t, student.NewStudent{
				Name: "Jane", Email: "jane@university.com", Password: "Secret123", PasswordConfirm: "Secret123",
			}),
			wantCode: http.StatusCreated,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/v1/students/register", tt.body)
			app.ServeHTTP(rec, req)

			if tt.wantData != nil {
				checkCodeAndData(t, tt, rec)
				return
			}
			if rec.Code != tt.wantCode {
				t.Fatalf("code = %v; wantCode %v; body: %s", rec.Code, tt.wantCode, rec.Body.String())
			}
			var std student.Student
			decodeBody(t, rec, &std)
			if std.ID == "" {
				t.Error("ID not set in response")
			}
			if _, err := stdSvc.GetByEmail("jane@university.com"); err != nil {
				t.Errorf("registered student not stored: %v", err)
			}
		})
	}
}

func Test_studentApi_login(t *testing.T) {
	resetDB(t)

	testutil.CreateStudent(t, stdRepo, "000001", "Jane", "jane@university.com", "Secret123", nil)

	authFailed := marchallObj(t, httpErr{Error: student.ErrAuthenticationFailed.Error()})
	tests := []httpTest{
		{
			name: "wrong password", body: marchallObj(t, LoginRequest{Email: "jane@university.com", Password: "Wrong1234"}),
			wantCode: http.StatusBadRequest, wantData: authFailed,
		},
		{
			name: "unknown email", body: marchallObj(t, LoginRequest{Email: "nobody@university.com", Password: "Secret123"}),
			wantCode: http.StatusBadRequest, wantData: authFailed,
		},
		{
			name: "ok", body: marchallObj(t, LoginRequest{Email: "jane@university.com", Password: "Secret123"}),
			wantCode: http.StatusOK,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/v1/students/login", tt.body)
			app.ServeHTTP(rec, req)

			if tt.wantData != nil {
				checkCodeAndData(t, tt, rec)
				return
			}
			if rec.Code != tt.wantCode {
				t.Fatalf("code = %v; wantCode %v; body: %s", rec.Code, tt.wantCode, rec.Body.String())
			}
			var resp LoginResponse
			decodeBody(t, rec, &resp)
			if resp.Token == "" {
				t.Error("token not set in response")
			}

			// the token grants access to /me
			req, rec = newAuthRequest(http.MethodGet, "/v1/students/me", resp.Token)
			app.ServeHTTP(rec, req)
			if rec.Code != http.StatusOK {
				t.Errorf("GET /me code = %v; want %v", rec.Code, http.StatusOK)
			}
		})
	}
}

func Test_studentApi_retrieve(t *testing.T) {
	resetDB(t)

	std := testutil.CreateStudent(t, stdRepo, "000001", "Jane", "jane@university.com", "", nil)

	tests := []httpTest{
		{
			name: "auth required", wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, errMissingToken),
		},
		{
			name: "admins have no student profile", token: getAdminToken(t),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden),
		},
		{name: "ok", token: getToken(t, std), wantCode: http.StatusOK, wantData: marchallObj(t, std)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, "/v1/students/me", tt.token)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_studentApi_enrollment(t *testing.T) {
	resetDB(t)

	std := testutil.CreateStudent(t, stdRepo, "000001", "Jane", "jane@university.com", "", nil)
	token := getToken(t, std)

	// enroll up to the cap
	for _, code := range []string{"MATH101", "PHYS102", "CHEM103", "BIOL104"} {
		req, rec := newAuthRequest(http.MethodPost, "/v1/students/me/subjects", token,
			marchallObj(t, EnrollRequest{Code: code}))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("enroll(%s) code = %v; want %v; body: %s", code, rec.Code, http.StatusCreated, rec.Body.String())
		}
	}

	tests := []httpTest{
		{
			name: "cap reached", method: http.MethodPost, path: "/v1/students/me/subjects",
			body:     marchallObj(t, EnrollRequest{Code: "HIST105"}),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: student.ErrEnrollmentLimit.Error()}),
		},
		{
			name: "duplicate code", method: http.MethodPost, path: "/v1/students/me/subjects",
			body:     marchallObj(t, EnrollRequest{Code: "MATH101"}),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: student.ErrAlreadyEnrolled.Error()}),
		},
		{
			name: "record mark", method: http.MethodPut, path: "/v1/students/me/subjects/MATH101/mark",
			body: marchallObj(t, MarkRequest{Mark: 80}), wantCode: http.StatusOK,
		},
		{
			name: "mark out of range", method: http.MethodPut, path: "/v1/students/me/subjects/MATH101/mark",
			body:     []byte(`{"mark": 101}`),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"mark": "mark must be 100 or less"}),
		},
		{
			name: "withdraw", method: http.MethodDelete, path: "/v1/students/me/subjects/BIOL104",
			wantCode: http.StatusNoContent,
		},
		{
			name: "withdraw not enrolled", method: http.MethodDelete, path: "/v1/students/me/subjects/BIOL104",
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: student.ErrNotEnrolled.Error()}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, token, tt.body)
			app.ServeHTTP(rec, req)
			if tt.wantData != nil {
				checkCodeAndData(t, tt, rec)
				return
			}
			if rec.Code != tt.wantCode {
				t.Errorf("code = %v; wantCode %v; body: %s", rec.Code, tt.wantCode, rec.Body.String())
			}
		})
	}

	// state persisted: 3 subjects left, MATH101 marked
	got, err := stdSvc.GetByID(std.ID)
	if err != nil {
		t.Fatalf("GetByID() failed: %v", err)
	}
	if len(got.Subjects) != 3 {
		t.Errorf("len(Subjects) = %d; want 3", len(got.Subjects))
	}
	if got.Subjects[0].Code != "MATH101" || got.Subjects[0].Mark != 80 {
		t.Errorf("Subjects[0] = %+v; want MATH101 with mark 80", got.Subjects[0])
	}
}

func Test_studentApi_subjects(t *testing.T) {
	resetDB(t)

	subs := []student.Subject{{Code: "MATH101", Mark: 80}, {Code: "PHYS102", Mark: 40}}
	std := testutil.CreateStudent(t, stdRepo, "000001", "Jane", "jane@university.com", "", subs)

	tt := httpTest{
		name: "ok", token: getToken(t, std), wantCode: http.StatusOK,
		wantData: marchallObj(t, SubjectsResponse{
			Subjects: []SubjectResponse{
				{Code: "MATH101", Mark: 80, Grade: "D"},
				{Code: "PHYS102", Mark: 40, Grade: "Z"},
			},
			AverageMark: 60,
			Grade:       "P",
			Outcome:     "PASS",
		}),
	}
	req, rec := newAuthRequest(http.MethodGet, "/v1/students/me/subjects", tt.token)
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, tt, rec)
}

func Test_studentApi_changePassword(t *testing.T) {
	resetDB(t)

	std := testutil.CreateStudent(t, stdRepo, "000001", "Jane", "jane@university.com", "Secret123", nil)
	token := getToken(t, std)

	tests := []httpTest{
		{
			name:     "wrong old password",
			body:     marchallObj(t, student.ChangePassword{OldPassword: "Wrong1234", Password: "Renewed456", PasswordConfirm: "Renewed456"}),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: "authentication failed"}),
		},
		{
			name:     "password reuse",
			body:     marchallObj(t, student.ChangePassword{OldPassword: "Secret123", Password: "Secret123", PasswordConfirm: "Secret123"}),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"password": student.ErrPasswordReused.Error()}),
		},
		{
			name:     "ok",
			body:     marchallObj(t, student.ChangePassword{OldPassword: "Secret123", Password: "Renewed456", PasswordConfirm: "Renewed456"}),
			wantCode: http.StatusOK, wantData: marchallObj(t, SuccessResponse{Success: "Password changed successfully."}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, "/v1/students/change-password", token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	// the new password authenticates
	if _, err := stdSvc.Authenticate("jane@university.com", "Renewed456"); err != nil {
		t.Errorf("Authenticate() with new password failed: %v", err)
	}
}

func Test_studentApi_refreshToken(t *testing.T) {
	resetDB(t)

	std := testutil.CreateStudent(t, stdRepo, "000001", "Jane", "jane@university.com", "", nil)

	req, rec := newAuthRequest(http.MethodPost, "/v1/students/token-refresh", getToken(t, std))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %v; want %v; body: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	var resp LoginResponse
	decodeBody(t, rec, &resp)
	if resp.Token == "" {
		t.Fatal("token not set in response")
	}

	// refreshed token still works
	req, rec = newAuthRequest(http.MethodGet, "/v1/students/me", resp.Token)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("GET /me with refreshed token code = %v; want %v", rec.Code, http.StatusOK)
	}
}
