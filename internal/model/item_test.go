package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextRenderEscapesMarkup(t *testing.T) {
	text := &Text{ItemBase: ItemBase{Title: "Intro"}, Body: `<script>alert("x")</script>`}

	html, err := text.RenderHTML()
	require.NoError(t, err)
	assert.Contains(t, html, "&lt;script&gt;")
	assert.NotContains(t, html, "<script>")
}

func TestFileRenderRequiresPath(t *testing.T) {
	file := &File{ItemBase: ItemBase{Title: "Syllabus"}}
	_, err := file.RenderHTML()
	assert.Error(t, err)

	file.Path = "content/files/syllabus.pdf"
	html, err := file.RenderHTML()
	require.NoError(t, err)
	assert.Contains(t, html, "content/files/syllabus.pdf")
	assert.Contains(t, html, "Syllabus")
}

func TestImageRenderRequiresPath(t *testing.T) {
	image := &Image{ItemBase: ItemBase{Title: "Diagram"}}
	_, err := image.RenderHTML()
	assert.Error(t, err)

	image.Path = "content/images/diagram.png"
	html, err := image.RenderHTML()
	require.NoError(t, err)
	assert.Contains(t, html, `alt="Diagram"`)
}

func TestVideoEmbedURL(t *testing.T) {
	cases := []struct {
		name    string
		url     string
		want    string
		wantErr bool
	}{
		{name: "youtube watch", url: "https://www.youtube.com/watch?v=abc123", want: "https://www.youtube.com/embed/abc123"},
		{name: "youtube short link", url: "https://youtu.be/abc123", want: "https://www.youtube.com/embed/abc123"},
		{name: "vimeo", url: "https://vimeo.com/987654", want: "https://player.vimeo.com/video/987654"},
		{name: "unknown host passes through", url: "https://example.com/clip.mp4", want: "https://example.com/clip.mp4"},
		{name: "youtube without id", url: "https://www.youtube.com/watch", wantErr: true},
		{name: "javascript scheme", url: "javascript:alert(1)", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v := &Video{URL: tc.url}
			got, err := v.embedURL()
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestVideoRenderFailsOnBadURL(t *testing.T) {
	v := &Video{ItemBase: ItemBase{Title: "Lecture 1"}, URL: "ftp://example.com/lecture"}
	_, err := v.RenderHTML()
	assert.Error(t, err)
	assert.Equal(t, "Lecture 1", v.ItemTitle())
}

func TestResolveItemTypeIsClosed(t *testing.T) {
	for _, tag := range ItemTypes() {
		desc, ok := ResolveItemType(string(tag))
		require.True(t, ok, "tag %q must resolve", tag)
		assert.Equal(t, tag, desc.Type)
		assert.NotNil(t, desc.New())
	}

	for _, tag := range []string{"quiz", "TEXT", "", "html"} {
		_, ok := ResolveItemType(tag)
		assert.False(t, ok, "tag %q must be rejected", tag)
	}
}

func TestItemBaseOwnership(t *testing.T) {
	text := &Text{}
	text.SetOwner(42)
	assert.Equal(t, uint(42), text.OwnerID)
}
