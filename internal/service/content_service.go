package service

import (
	"context"
	"io"
	"mime/multipart"
	"path/filepath"

	"learnhub_backend/internal/model"
	"learnhub_backend/internal/repository"
	"learnhub_backend/internal/util"
	"learnhub_backend/pkg/logger"

	"go.uber.org/zap"
)

// ContentService dispatches owner-scoped content mutations on the variant
// tag. The tag is validated against the closed registry before anything
// touches the database.
type ContentService struct {
	ContentRepo    *repository.ContentRepository
	ModuleRepo     *repository.ModuleRepository
	StorageService *StorageService
}

func NewContentService(contentRepo *repository.ContentRepository, moduleRepo *repository.ModuleRepository, storageService *StorageService) *ContentService {
	return &ContentService{
		ContentRepo:    contentRepo,
		ModuleRepo:     moduleRepo,
		StorageService: storageService,
	}
}

// ContentItemInput carries the union of variant payload fields; which ones
// are required depends on the tag being dispatched on.
type ContentItemInput struct {
	Title string
	Body  string
	URL   string
	File  *multipart.FileHeader
}

// ContentInfo is the management listing row for one envelope.
type ContentInfo struct {
	ID       uint           `json:"id"`
	Order    int            `json:"order"`
	ItemType model.ItemType `json:"itemType"`
	Title    string         `json:"title"`
}

func (s *ContentService) ListModuleContents(ownerID, moduleID uint) ([]ContentInfo, error) {
	module, err := s.ModuleRepo.FindOwnedByID(moduleID, ownerID)
	if err != nil {
		return nil, asNotFound(err)
	}

	contents, err := s.ContentRepo.FindByModule(module.ID)
	if err != nil {
		return nil, err
	}

	infos := make([]ContentInfo, 0, len(contents))
	for i := range contents {
		c := &contents[i]
		info := ContentInfo{ID: c.ID, Order: c.Order, ItemType: c.ItemType}
		if item, err := s.ContentRepo.ResolveItem(c); err == nil {
			info.Title = item.ItemTitle()
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// CreateContent builds the variant for the given tag and appends a new
// envelope at the end of the module.
func (s *ContentService) CreateContent(ctx context.Context, ownerID, moduleID uint, tag string, input ContentItemInput) (*model.Content, error) {
	desc, ok := model.ResolveItemType(tag)
	if !ok {
		return nil, util.ErrUnknownContentType
	}

	module, err := s.ModuleRepo.FindOwnedByID(moduleID, ownerID)
	if err != nil {
		return nil, asNotFound(err)
	}

	item, err := s.buildItem(ctx, desc.Type, input)
	if err != nil {
		return nil, err
	}
	item.SetOwner(ownerID)

	return s.ContentRepo.CreateWithItem(item, desc.Type, module.ID)
}

// UpdateContent mutates the underlying item in place; no new envelope is
// ever created on update.
func (s *ContentService) UpdateContent(ctx context.Context, ownerID, contentID uint, input ContentItemInput) error {
	content, err := s.ContentRepo.FindOwnedByID(contentID, ownerID)
	if err != nil {
		return asNotFound(err)
	}

	item, err := s.ContentRepo.ResolveItem(content)
	if err != nil {
		return asNotFound(err)
	}

	if input.Title == "" {
		return util.NewFieldError("title", "title is required")
	}

	switch it := item.(type) {
	case *model.Text:
		if input.Body == "" {
			return util.NewFieldError("body", "text content requires a body")
		}
		it.Title = input.Title
		it.Body = input.Body
	case *model.Video:
		if input.URL == "" {
			return util.NewFieldError("url", "video content requires a url")
		}
		it.Title = input.Title
		it.URL = input.URL
	case *model.File:
		it.Title = input.Title
		if input.File != nil {
			path, err := s.storeUpload(ctx, input.File, util.AllowedFileMimeTypes, "content/files")
			if err != nil {
				return err
			}
			it.Path = path
		}
	case *model.Image:
		it.Title = input.Title
		if input.File != nil {
			path, err := s.storeUpload(ctx, input.File, util.AllowedImageMimeTypes, "content/images")
			if err != nil {
				return err
			}
			it.Path = path
		}
	}

	return s.ContentRepo.SaveItem(item)
}

// DeleteContent removes the envelope and its single underlying item.
func (s *ContentService) DeleteContent(ownerID, contentID uint) error {
	content, err := s.ContentRepo.FindOwnedByID(contentID, ownerID)
	if err != nil {
		return asNotFound(err)
	}
	return s.ContentRepo.DeleteWithItem(content)
}

func (s *ContentService) buildItem(ctx context.Context, itemType model.ItemType, input ContentItemInput) (model.Item, error) {
	if input.Title == "" {
		return nil, util.NewFieldError("title", "title is required")
	}

	switch itemType {
	case model.ItemText:
		if input.Body == "" {
			return nil, util.NewFieldError("body", "text content requires a body")
		}
		return &model.Text{ItemBase: model.ItemBase{Title: input.Title}, Body: input.Body}, nil
	case model.ItemVideo:
		if input.URL == "" {
			return nil, util.NewFieldError("url", "video content requires a url")
		}
		return &model.Video{ItemBase: model.ItemBase{Title: input.Title}, URL: input.URL}, nil
	case model.ItemFile:
		if input.File == nil {
			return nil, util.NewFieldError("file", "file content requires an upload")
		}
		path, err := s.storeUpload(ctx, input.File, util.AllowedFileMimeTypes, "content/files")
		if err != nil {
			return nil, err
		}
		return &model.File{ItemBase: model.ItemBase{Title: input.Title}, Path: path}, nil
	case model.ItemImage:
		if input.File == nil {
			return nil, util.NewFieldError("file", "image content requires an upload")
		}
		path, err := s.storeUpload(ctx, input.File, util.AllowedImageMimeTypes, "content/images")
		if err != nil {
			return nil, err
		}
		return &model.Image{ItemBase: model.ItemBase{Title: input.Title}, Path: path}, nil
	default:
		return nil, util.ErrUnknownContentType
	}
}

func (s *ContentService) storeUpload(ctx context.Context, file *multipart.FileHeader, allowedTypes []string, prefix string) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	mimeType, err := util.ValidateMimeType(src, allowedTypes)
	if err != nil {
		logger.Log.Warn("rejected content upload", zap.String("mime", mimeType), zap.Error(err))
		return "", util.NewFieldError("file", err.Error())
	}
	if seeker, ok := src.(io.Seeker); ok {
		seeker.Seek(0, io.SeekStart)
	}

	ext := filepath.Ext(file.Filename)
	filename := prefix + "/" + model.GenerateUUID() + ext

	return s.StorageService.Upload(ctx, filename, src, file.Size, file.Header.Get("Content-Type"))
}
