package services

import "testing"

func TestPosterObjectName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/oYuLEt3zVCKq57qu2F8dT7NIa6f.jpg", "posters/oYuLEt3zVCKq57qu2F8dT7NIa6f.jpg"},
		{"nested/dir/a.png", "posters/a.png"},
		{"", ""},
		{"/", ""},
	}
	for _, tt := range tests {
		if got := posterObjectName(tt.in); got != tt.want {
			t.Errorf("posterObjectName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestObjectURL(t *testing.T) {
	if got := objectURL("https://cdn.example.com/cinematch/", "minio:9000", "cinematch", true, "posters/a.jpg"); got != "https://cdn.example.com/cinematch/posters/a.jpg" {
		t.Errorf("public URL form = %q", got)
	}
	if got := objectURL("", "minio:9000", "cinematch", false, "posters/a.jpg"); got != "http://minio:9000/cinematch/posters/a.jpg" {
		t.Errorf("endpoint form = %q", got)
	}
}
