package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/vikramvicky-1/ttdashboard-sub000/internal/domain"
	"github.com/vikramvicky-1/ttdashboard-sub000/internal/testutil"
)

// createTestImage creates a test image of the specified size and format
func createTestImage(width, height int, format string) ([]byte, string) {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: 255, G: 0, B: 0, A: 255})
		}
	}

	var buf bytes.Buffer
	var filename string

	switch format {
	case "png":
		png.Encode(&buf, img)
		filename = "test.png"
	default:
		jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85})
		filename = "test.jpg"
	}

	return buf.Bytes(), filename
}

var pdfBytes = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n")

func TestAttachmentSave_PDF(t *testing.T) {
	files := testutil.NewMockFileRepository()
	svc := NewAttachmentService(files)

	ref, err := svc.Save(context.Background(), &FileUpload{Filename: "invoice.pdf", ContentType: "application/pdf", Data: pdfBytes})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.HasPrefix(ref, "/uploads/") || !strings.HasSuffix(ref, ".pdf") {
		t.Errorf("unexpected reference %q", ref)
	}
	if !files.Has(ref) {
		t.Error("expected file to be stored")
	}
}

func TestAttachmentSave_SniffsMissingContentType(t *testing.T) {
	files := testutil.NewMockFileRepository()
	svc := NewAttachmentService(files)
	data, _ := createTestImage(10, 10, "png")

	ref, err := svc.Save(context.Background(), &FileUpload{Filename: "scan", ContentType: "application/octet-stream", Data: data})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.HasSuffix(ref, ".png") {
		t.Errorf("expected .png reference, got %q", ref)
	}
	if files.Types[strings.TrimPrefix(ref, "/uploads/")] != "image/png" {
		t.Errorf("expected stored content type image/png, got %q", files.Types[strings.TrimPrefix(ref, "/uploads/")])
	}
}

func TestAttachmentSave_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		upload  *FileUpload
		wantErr error
	}{
		{"empty", &FileUpload{Filename: "a.pdf", ContentType: "application/pdf"}, ErrEmptyFile},
		{"too large", &FileUpload{Filename: "a.pdf", ContentType: "application/pdf", Data: make([]byte, domain.MaxAttachmentSize+1)}, ErrFileTooLarge},
		{"unsupported type", &FileUpload{Filename: "a.txt", ContentType: "text/plain", Data: []byte("hello")}, ErrUnsupportedFileType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			files := testutil.NewMockFileRepository()
			svc := NewAttachmentService(files)

			_, err := svc.Save(context.Background(), tt.upload)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
			if !errors.Is(err, domain.ErrInvalidFile) {
				t.Errorf("expected error to wrap ErrInvalidFile, got %v", err)
			}
			if files.Count() != 0 {
				t.Errorf("expected nothing stored, got %d files", files.Count())
			}
		})
	}
}

func TestAttachmentSave_NotConfigured(t *testing.T) {
	svc := NewAttachmentService(nil)

	_, err := svc.Save(context.Background(), &FileUpload{Filename: "a.pdf", ContentType: "application/pdf", Data: pdfBytes})
	if !errors.Is(err, ErrAttachmentsNotConfigured) {
		t.Errorf("expected ErrAttachmentsNotConfigured, got %v", err)
	}
}

func TestSaveProfilePicture_ResizesWideImage(t *testing.T) {
	files := testutil.NewMockFileRepository()
	svc := NewAttachmentService(files)
	data, filename := createTestImage(1024, 256, "png")

	ref, err := svc.SaveProfilePicture(context.Background(), &FileUpload{Filename: filename, ContentType: "image/png", Data: data})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.HasSuffix(ref, ".jpg") {
		t.Errorf("expected resized picture stored as .jpg, got %q", ref)
	}

	stored := files.Files[strings.TrimPrefix(ref, "/uploads/")]
	img, err := jpeg.Decode(bytes.NewReader(stored))
	if err != nil {
		t.Fatalf("expected stored data to be JPEG, got %v", err)
	}
	if img.Bounds().Dx() != ProfilePictureMaxWidth {
		t.Errorf("expected width %d, got %d", ProfilePictureMaxWidth, img.Bounds().Dx())
	}
	if img.Bounds().Dy() != 128 {
		t.Errorf("expected height 128, got %d", img.Bounds().Dy())
	}
}

func TestSaveProfilePicture_KeepsSmallImage(t *testing.T) {
	files := testutil.NewMockFileRepository()
	svc := NewAttachmentService(files)
	data, filename := createTestImage(100, 100, "png")

	ref, err := svc.SaveProfilePicture(context.Background(), &FileUpload{Filename: filename, ContentType: "image/png", Data: data})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !bytes.Equal(files.Files[strings.TrimPrefix(ref, "/uploads/")], data) {
		t.Error("expected small picture to be stored unmodified")
	}
}

func TestSaveProfilePicture_Rejects(t *testing.T) {
	svc := NewAttachmentService(testutil.NewMockFileRepository())

	_, err := svc.SaveProfilePicture(context.Background(), &FileUpload{Filename: "a.pdf", ContentType: "application/pdf", Data: pdfBytes})
	if !errors.Is(err, ErrUnsupportedImageType) {
		t.Errorf("expected ErrUnsupportedImageType, got %v", err)
	}

	_, err = svc.SaveProfilePicture(context.Background(), &FileUpload{Filename: "a.jpg", ContentType: "image/jpeg", Data: make([]byte, domain.MaxProfilePictureSize+1)})
	if !errors.Is(err, ErrPictureTooLarge) {
		t.Errorf("expected ErrPictureTooLarge, got %v", err)
	}

	_, err = svc.SaveProfilePicture(context.Background(), &FileUpload{Filename: "a.jpg", ContentType: "image/jpeg", Data: []byte("not really a jpeg")})
	if !errors.Is(err, ErrInvalidImageData) {
		t.Errorf("expected ErrInvalidImageData, got %v", err)
	}
}

func TestAttachmentDiscard(t *testing.T) {
	files := testutil.NewMockFileRepository()
	svc := NewAttachmentService(files)

	ref, err := svc.Save(context.Background(), &FileUpload{Filename: "a.pdf", ContentType: "application/pdf", Data: pdfBytes})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	svc.Discard(context.Background(), ref)
	if files.Has(ref) {
		t.Error("expected file to be removed")
	}

	// Failures are swallowed
	files.DeleteErr = errors.New("boom")
	svc.Discard(context.Background(), "/uploads/missing.pdf")
}

func TestAttachmentURL(t *testing.T) {
	svc := NewAttachmentService(testutil.NewMockFileRepository())

	url, err := svc.URL(context.Background(), "abc.pdf")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.Contains(url, "abc.pdf") {
		t.Errorf("unexpected url %q", url)
	}

	for _, bad := range []string{"", "../secret", "a/b.pdf"} {
		if _, err := svc.URL(context.Background(), bad); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("URL(%q): expected ErrNotFound, got %v", bad, err)
		}
	}
}

func TestExtensionFor(t *testing.T) {
	tests := []struct {
		filename    string
		contentType string
		want        string
	}{
		{"photo.JPEG", "image/jpeg", ".jpeg"},
		{"photo.jpg", "image/jpeg", ".jpg"},
		{"photo", "image/png", ".png"},
		{"report.exe", "application/pdf", ".pdf"},
	}

	for _, tt := range tests {
		if got := extensionFor(tt.filename, tt.contentType); got != tt.want {
			t.Errorf("extensionFor(%q, %q) = %q, want %q", tt.filename, tt.contentType, got, tt.want)
		}
	}
}
