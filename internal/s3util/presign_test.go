package s3util

import "testing"

func TestValidateFilename(t *testing.T) {
	valid := []string{"shirt.jpg", "blue dress (2).png", "item_01-front.webp"}
	for _, name := range valid {
		if err := ValidateFilename(name); err != nil {
			t.Errorf("expected %q to be valid: %v", name, err)
		}
	}

	invalid := []string{"", "../etc/passwd", "a/b.jpg", "photo\\x.png", "shirt<1>.jpg"}
	for _, name := range invalid {
		if err := ValidateFilename(name); err == nil {
			t.Errorf("expected %q to be rejected", name)
		}
	}
}

func TestValidateContentType(t *testing.T) {
	if err := ValidateContentType("image/jpeg"); err != nil {
		t.Errorf("expected image/jpeg to be allowed: %v", err)
	}
	for _, ct := range []string{"video/mp4", "application/pdf", ""} {
		if err := ValidateContentType(ct); err == nil {
			t.Errorf("expected %q to be rejected", ct)
		}
	}
}
