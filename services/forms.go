package services

import (
	"errors"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/cppla/yatube/store"
	"github.com/cppla/yatube/utils"
)

const (
	msgRequired      = "This field is required."
	msgInvalidChoice = "Select a valid choice. That choice is not one of the available choices."
	msgFileAndClear  = "Please either submit a file or check the clear checkbox, not both."
)

// FieldErrors maps a form field name to its validation messages. Empty means valid.
type FieldErrors map[string][]string

func (e FieldErrors) add(field, msg string) {
	e[field] = append(e[field], msg)
}

// Valid reports whether no field failed validation.
func (e FieldErrors) Valid() bool {
	return len(e) == 0
}

// PostForm is the submitted state of the create and edit post forms.
type PostForm struct {
	Text       string                `form:"text" json:"text"`
	Group      string                `form:"group" json:"group"`
	ClearImage bool                  `form:"image-clear" json:"image_clear"`
	Image      *multipart.FileHeader `form:"-" json:"-"`
}

// CommentForm is the submitted state of the comment form.
type CommentForm struct {
	Text string `form:"text" json:"text"`
}

// cleanedPost is a PostForm that passed validation.
type cleanedPost struct {
	text    string
	groupID *uint
	image   *utils.Upload
	clear   bool
}

func (p *PostService) validatePost(form PostForm) (*cleanedPost, FieldErrors, error) {
	errs := FieldErrors{}
	out := &cleanedPost{clear: form.ClearImage}

	out.text = strings.TrimSpace(form.Text)
	if out.text == "" {
		errs.add("text", msgRequired)
	}

	if raw := strings.TrimSpace(form.Group); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			errs.add("group", msgInvalidChoice)
		} else if group, err := p.store.GroupByID(uint(id)); err != nil {
			if !errors.Is(err, store.ErrNotFound) {
				return nil, nil, err
			}
			errs.add("group", msgInvalidChoice)
		} else {
			out.groupID = &group.ID
		}
	}

	if form.Image != nil {
		if form.ClearImage {
			errs.add("image", msgFileAndClear)
		} else if upload, err := utils.ReadImage(form.Image, p.maxUpload); err != nil {
			switch {
			case errors.Is(err, utils.ErrNotImage), errors.Is(err, utils.ErrUploadTooLarge):
				errs.add("image", err.Error())
			default:
				return nil, nil, err
			}
		} else {
			out.image = upload
		}
	}

	return out, errs, nil
}

// validComment reports the cleaned comment text and whether it is acceptable.
func validComment(form CommentForm) (string, bool) {
	text := strings.TrimSpace(form.Text)
	return text, text != ""
}
