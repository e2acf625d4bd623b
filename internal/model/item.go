package model

import (
	"fmt"
	"html/template"
	"net/url"
	"strings"
)

// Item is the contract every content variant fulfills: a display rendering
// plus the plain identity used as fallback when rendering fails.
type Item interface {
	RenderHTML() (string, error)
	ItemTitle() string
	ItemID() uint
	SetOwner(userID uint)
}

// ItemBase carries the fields shared by all content variants.
type ItemBase struct {
	BaseModel
	OwnerID uint   `gorm:"index;not null" json:"owner"`
	Title   string `gorm:"size:200;not null" json:"title"`
}

func (b *ItemBase) ItemTitle() string { return b.Title }

func (b *ItemBase) ItemID() uint { return b.ID }

func (b *ItemBase) SetOwner(userID uint) { b.OwnerID = userID }

// swagger:model Text
type Text struct {
	ItemBase
	Body string `gorm:"type:text" json:"body"`
}

func (Text) TableName() string { return "item_texts" }

// swagger:model File
type File struct {
	ItemBase
	Path string `gorm:"size:255;not null" json:"path"`
}

func (File) TableName() string { return "item_files" }

// swagger:model Image
type Image struct {
	ItemBase
	Path string `gorm:"size:255;not null" json:"path"`
}

func (Image) TableName() string { return "item_images" }

// swagger:model Video
type Video struct {
	ItemBase
	URL string `gorm:"size:255;not null" json:"url"`
}

func (Video) TableName() string { return "item_videos" }

var (
	textTmpl  = template.Must(template.New("text").Parse(`<div class="content-text"><p>{{.Body}}</p></div>`))
	fileTmpl  = template.Must(template.New("file").Parse(`<p><a href="{{.Path}}" download>Download {{.Title}}</a></p>`))
	imageTmpl = template.Must(template.New("image").Parse(`<img src="{{.Path}}" alt="{{.Title}}">`))
	videoTmpl = template.Must(template.New("video").Parse(`<iframe src="{{.Embed}}" frameborder="0" allowfullscreen></iframe>`))
)

func (t *Text) RenderHTML() (string, error) {
	var sb strings.Builder
	if err := textTmpl.Execute(&sb, t); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func (f *File) RenderHTML() (string, error) {
	if f.Path == "" {
		return "", fmt.Errorf("file item %d has no stored path", f.ID)
	}
	var sb strings.Builder
	if err := fileTmpl.Execute(&sb, f); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func (i *Image) RenderHTML() (string, error) {
	if i.Path == "" {
		return "", fmt.Errorf("image item %d has no stored path", i.ID)
	}
	var sb strings.Builder
	if err := imageTmpl.Execute(&sb, i); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func (v *Video) RenderHTML() (string, error) {
	embed, err := v.embedURL()
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	if err := videoTmpl.Execute(&sb, struct{ Embed string }{embed}); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// embedURL normalizes known video hosts to their embed form. Third-party
// authored URLs are arbitrary, so this is a legitimate failure point and the
// caller is expected to fall back to the item title.
func (v *Video) embedURL() (string, error) {
	u, err := url.Parse(v.URL)
	if err != nil {
		return "", err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("unsupported video url scheme %q", u.Scheme)
	}

	host := strings.TrimPrefix(u.Hostname(), "www.")
	switch host {
	case "youtube.com":
		if id := u.Query().Get("v"); id != "" {
			return "https://www.youtube.com/embed/" + id, nil
		}
		return "", fmt.Errorf("youtube url %q has no video id", v.URL)
	case "youtu.be":
		id := strings.Trim(u.Path, "/")
		if id == "" {
			return "", fmt.Errorf("youtube url %q has no video id", v.URL)
		}
		return "https://www.youtube.com/embed/" + id, nil
	case "vimeo.com":
		id := strings.Trim(u.Path, "/")
		if id == "" {
			return "", fmt.Errorf("vimeo url %q has no video id", v.URL)
		}
		return "https://player.vimeo.com/video/" + id, nil
	default:
		return v.URL, nil
	}
}
