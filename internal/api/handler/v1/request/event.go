package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type CreateEventRequest struct {
	Name        string `json:"name" binding:"required"`
	Venue       string `json:"venue" binding:"required"`
	StartsAt    string `json:"starts_at" binding:"required" format:"RFC3339"`
	Description string `json:"description"`
}

func (req *CreateEventRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(2, 100)),
		validation.Field(&req.Venue, validation.Required, validation.Length(2, 100)),
		validation.Field(&req.StartsAt, validation.Required, validation.Date(timeLayout)),
		validation.Field(&req.Description, validation.Length(0, 500)),
	)
}

const timeLayout = "2006-01-02T15:04:05Z07:00"
