package dto

import (
	"mime/multipart"

	"tablebook/internal/domains/restaurant/model"
	"tablebook/shared"
	gDto "tablebook/shared/dto"
	gModel "tablebook/shared/model"

	"github.com/google/uuid"
)

// Image is an optional multipart upload attached to a create or update.
type Image struct {
	Header *multipart.FileHeader `json:"-" swaggerignore:"true" validate:"omitempty,mimetypes=image/png image/jpg image/jpeg image/webp,maxfilesize=5"`
	File   multipart.File        `json:"-" swaggerignore:"true"`
}

func (i Image) Present() bool {
	return i.Header != nil && i.File != nil
}

type CreateRestaurantRequest struct {
	Name           string `json:"name"            validate:"required,min=1,max=100"`
	Description    string `json:"description"     validate:"required,min=1,max=500"`
	RestaurantType string `json:"restaurant_type" validate:"required,min=1,max=50"`
	PhoneNumber    string `json:"phone_number"    validate:"required,min=1,max=15"`
	Address        string `json:"address"         validate:"required,min=1,max=100"`
	Image          Image  `json:"-"`
}

func (r *CreateRestaurantRequest) ToModel(user string, imageURL *string) model.Restaurant {
	return model.Restaurant{
		ID:             uuid.NewString(),
		Name:           r.Name,
		Description:    r.Description,
		RestaurantType: r.RestaurantType,
		PhoneNumber:    r.PhoneNumber,
		Address:        r.Address,
		Image:          imageURL,
		Metadata:       gModel.NewMetadata(user),
	}
}

type UpdateRestaurantRequest struct {
	Name           *string `db:"name"            json:"name,omitempty"            validate:"omitempty,min=1,max=100"`
	Description    *string `db:"description"     json:"description,omitempty"     validate:"omitempty,min=1,max=500"`
	RestaurantType *string `db:"restaurant_type" json:"restaurant_type,omitempty" validate:"omitempty,min=1,max=50"`
	PhoneNumber    *string `db:"phone_number"    json:"phone_number,omitempty"    validate:"omitempty,min=1,max=15"`
	Address        *string `db:"address"         json:"address,omitempty"         validate:"omitempty,min=1,max=100"`
	ImageURL       *string `db:"image"           json:"-"`
	Image          Image   `json:"-"`
}

// IsEmpty reports whether neither a field nor an image was supplied.
func (r *UpdateRestaurantRequest) IsEmpty() bool {
	return r.Name == nil && r.Description == nil && r.RestaurantType == nil &&
		r.PhoneNumber == nil && r.Address == nil && !r.Image.Present()
}

type RestaurantResponse struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Description    string  `json:"description"`
	RestaurantType string  `json:"restaurant_type"`
	PhoneNumber    string  `json:"phone_number"`
	Address        string  `json:"address"`
	Image          *string `json:"image,omitempty"`
	gDto.Metadata
}

func (r *RestaurantResponse) FromModel(model model.Restaurant) {
	r.ID = model.ID
	r.Name = model.Name
	r.Description = model.Description
	r.RestaurantType = model.RestaurantType
	r.PhoneNumber = model.PhoneNumber
	r.Address = model.Address
	r.Image = model.Image
	r.Metadata.FromModel(model.Metadata)
}

type GetRestaurantsResponse struct {
	Restaurants []RestaurantResponse `json:"restaurants"`
	TotalPage   int                  `json:"total_page"`
	TotalData   int                  `json:"total_data"`
}

func (r *GetRestaurantsResponse) FromModels(models []model.Restaurant, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Restaurants = make([]RestaurantResponse, len(models))
	for i, m := range models {
		r.Restaurants[i].FromModel(m)
	}
}
