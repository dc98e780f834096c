package password

import (
	"errors"
	"strings"
	"testing"
)

func TestGetHash(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{
			name:     "regular password",
			password: "password123",
			wantErr:  false,
		},
		{
			name:     "password with special chars",
			password: "p@ssw0rd!@#$%^&*()",
			wantErr:  false,
		},
		{
			name:     "exactly max length",
			password: strings.Repeat("a", MaxLength),
			wantErr:  false,
		},
		{
			name:     "longer than bcrypt accepts",
			password: strings.Repeat("a", MaxLength+1),
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotHash, err := GetHash(tt.password)

			if (err != nil) != tt.wantErr {
				t.Errorf("GetHash() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr {
				if !errors.Is(err, ErrTooLong) {
					t.Errorf("GetHash() error = %v, want ErrTooLong", err)
				}
				return
			}

			if gotHash == "" {
				t.Error("GetHash() returned empty hash")
			}
			if err = CompareHash(gotHash, tt.password); err != nil {
				t.Errorf("Generated hash doesn't work with original password: %v", err)
			}
		})
	}
}

func TestCompareHash(t *testing.T) {
	correctHash, err := GetHash("correct_password")
	if err != nil {
		t.Fatalf("Failed to create test hash: %v", err)
	}

	tests := []struct {
		name         string
		hash         string
		password     string
		wantMismatch bool
		wantErr      bool
	}{
		{
			name:     "matching password",
			hash:     correctHash,
			password: "correct_password",
		},
		{
			name:         "wrong password",
			hash:         correctHash,
			password:     "wrong_password",
			wantMismatch: true,
			wantErr:      true,
		},
		{
			name:         "empty password",
			hash:         correctHash,
			password:     "",
			wantMismatch: true,
			wantErr:      true,
		},
		{
			name:     "corrupted hash",
			hash:     "not-a-bcrypt-hash",
			password: "correct_password",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CompareHash(tt.hash, tt.password)

			if (err != nil) != tt.wantErr {
				t.Fatalf("CompareHash() error = %v, wantErr %v", err, tt.wantErr)
			}
			if errors.Is(err, ErrMismatch) != tt.wantMismatch {
				t.Errorf("CompareHash() mismatch = %v, want %v", errors.Is(err, ErrMismatch), tt.wantMismatch)
			}
		})
	}
}
