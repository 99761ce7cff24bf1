package upload

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeFileHeader(t *testing.T, filename, contentType, body string) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write([]byte(body))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload/image", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))

	files := req.MultipartForm.File["file"]
	require.Len(t, files, 1)
	return files[0]
}

func TestSaveImage(t *testing.T) {
	svc := NewService(t.TempDir(), 1<<20)

	resp, err := svc.SaveImage(makeFileHeader(t, "photo.PNG", "image/png", "fake png bytes"))
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(resp.Filename, ".png"), "extension is lowercased")
	assert.Equal(t, "/uploads/images/"+resp.Filename, resp.URL)
	assert.Equal(t, int64(len("fake png bytes")), resp.Size)

	// The stored name is a uuid, never the client-supplied name.
	_, err = uuid.Parse(strings.TrimSuffix(resp.Filename, ".png"))
	assert.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(svc.ImagesDir(), resp.Filename))
	require.NoError(t, err)
	assert.Equal(t, "fake png bytes", string(data))
}

func TestSaveImageGeneratesDistinctNames(t *testing.T) {
	svc := NewService(t.TempDir(), 1<<20)

	first, err := svc.SaveImage(makeFileHeader(t, "a.jpg", "image/jpeg", "one"))
	require.NoError(t, err)
	second, err := svc.SaveImage(makeFileHeader(t, "a.jpg", "image/jpeg", "two"))
	require.NoError(t, err)

	assert.NotEqual(t, first.Filename, second.Filename)
}

func TestSaveImageRejections(t *testing.T) {
	svc := NewService(t.TempDir(), 16)

	tests := []struct {
		name        string
		filename    string
		contentType string
		body        string
		want        error
	}{
		{"not an image content type", "doc.png", "application/pdf", "x", ErrNotImage},
		{"extension not whitelisted", "shell.php", "image/png", "x", ErrBadExtension},
		{"no extension", "noext", "image/png", "x", ErrBadExtension},
		{"declared size over limit", "big.png", "image/png", strings.Repeat("x", 17), ErrTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.SaveImage(makeFileHeader(t, tt.filename, tt.contentType, tt.body))
			assert.ErrorIs(t, err, tt.want)
		})
	}

	// Rejected uploads leave nothing on disk.
	entries, err := os.ReadDir(svc.ImagesDir())
	if err == nil {
		assert.Empty(t, entries)
	}
}

func TestDeleteImage(t *testing.T) {
	svc := NewService(t.TempDir(), 1<<20)

	resp, err := svc.SaveImage(makeFileHeader(t, "pic.webp", "image/webp", "bytes"))
	require.NoError(t, err)

	require.NoError(t, svc.DeleteImage(resp.Filename))
	_, err = os.Stat(filepath.Join(svc.ImagesDir(), resp.Filename))
	assert.True(t, os.IsNotExist(err))

	// Second delete reports not found.
	assert.ErrorIs(t, svc.DeleteImage(resp.Filename), ErrNotFound)
}

func TestDeleteImageRejectsBadNames(t *testing.T) {
	svc := NewService(t.TempDir(), 1<<20)

	bad := []string{
		"../../etc/passwd",
		"plainname.png",
		uuid.New().String(),
		uuid.New().String() + ".php",
		"",
	}
	for _, name := range bad {
		assert.ErrorIs(t, svc.DeleteImage(name), ErrNotFound, name)
	}
}
