package usecase

import (
	"context"
	"net/http"
	"strings"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type AddressUsecase struct {
	addresses repo.AddressRepository
}

func NewAddressUsecase(addresses repo.AddressRepository) *AddressUsecase {
	return &AddressUsecase{addresses: addresses}
}

type AddressInput struct {
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	City      string `json:"city"`
	State     string `json:"state"`
	Pincode   string `json:"pincode"`
	Line1     string `json:"line1"`
	IsDefault bool   `json:"is_default"`
}

type AddressOutput struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	City      string `json:"city"`
	State     string `json:"state"`
	Pincode   string `json:"pincode"`
	Line1     string `json:"line1"`
	IsDefault bool   `json:"is_default"`
}

func validateAddressInput(in *AddressInput) error {
	in.Name = strings.TrimSpace(in.Name)
	in.Phone = strings.TrimSpace(in.Phone)
	in.City = strings.TrimSpace(in.City)
	in.State = strings.TrimSpace(in.State)
	in.Pincode = strings.TrimSpace(in.Pincode)
	in.Line1 = strings.TrimSpace(in.Line1)

	if in.Name == "" || len(in.Name) > 255 {
		return NewHTTPError(http.StatusBadRequest, CodeValidation, "invalid name")
	}
	if in.City == "" || in.State == "" || in.Line1 == "" {
		return NewHTTPError(http.StatusBadRequest, CodeValidation, "city, state and line1 are required")
	}
	if in.Pincode == "" || len(in.Pincode) > 20 {
		return NewHTTPError(http.StatusBadRequest, CodeValidation, "invalid pincode")
	}
	if len(in.Phone) > 30 {
		return NewHTTPError(http.StatusBadRequest, CodeValidation, "invalid phone")
	}
	return nil
}

func (u *AddressUsecase) Create(ctx context.Context, tenantID, customerID int64, in AddressInput) (AddressOutput, error) {
	if tenantID <= 0 || customerID <= 0 {
		return AddressOutput{}, NewHTTPError(http.StatusUnauthorized, CodeValidation, "unauthorized")
	}
	if err := validateAddressInput(&in); err != nil {
		return AddressOutput{}, err
	}

	now := time.Now()
	created, err := u.addresses.Create(ctx, model.Address{
		TenantID:   tenantID,
		CustomerID: customerID,
		Name:       in.Name,
		Phone:      in.Phone,
		City:       in.City,
		State:      in.State,
		Pincode:    in.Pincode,
		Line1:      in.Line1,
		IsDefault:  in.IsDefault,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		return AddressOutput{}, NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}

	if in.IsDefault {
		if err := u.addresses.SetDefault(ctx, customerID, created.ID); err != nil {
			return AddressOutput{}, NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
		}
	}

	return toAddressOutput(created), nil
}

func (u *AddressUsecase) List(ctx context.Context, customerID int64) ([]AddressOutput, error) {
	if customerID <= 0 {
		return []AddressOutput{}, NewHTTPError(http.StatusUnauthorized, CodeValidation, "unauthorized")
	}

	list, err := u.addresses.ListByCustomerID(ctx, customerID)
	if err != nil {
		return []AddressOutput{}, NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}

	outs := make([]AddressOutput, 0, len(list))
	for _, a := range list {
		outs = append(outs, toAddressOutput(a))
	}
	return outs, nil
}

func (u *AddressUsecase) Update(ctx context.Context, customerID, addressID int64, in AddressInput) error {
	if customerID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, CodeValidation, "unauthorized")
	}
	if addressID <= 0 {
		return NewHTTPError(http.StatusBadRequest, CodeValidation, "invalid id")
	}
	if err := validateAddressInput(&in); err != nil {
		return err
	}

	//他人の住所は「存在しない扱い」
	owned, err := u.addresses.IsOwnedByCustomer(ctx, addressID, customerID)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}
	if !owned {
		return NewHTTPError(http.StatusNotFound, CodeNotFound, "not found")
	}

	current, err := u.addresses.FindByID(ctx, addressID)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}

	current.Name = in.Name
	current.Phone = in.Phone
	current.City = in.City
	current.State = in.State
	current.Pincode = in.Pincode
	current.Line1 = in.Line1
	current.UpdatedAt = time.Now()

	if err := u.addresses.Update(ctx, current); err != nil {
		return NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}

	if in.IsDefault && !current.IsDefault {
		if err := u.addresses.SetDefault(ctx, customerID, addressID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
		}
	}
	return nil
}

func (u *AddressUsecase) Delete(ctx context.Context, customerID, addressID int64) error {
	if customerID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, CodeValidation, "unauthorized")
	}
	if addressID <= 0 {
		return NewHTTPError(http.StatusBadRequest, CodeValidation, "invalid id")
	}

	owned, err := u.addresses.IsOwnedByCustomer(ctx, addressID, customerID)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}
	if !owned {
		return NewHTTPError(http.StatusNotFound, CodeNotFound, "not found")
	}

	if err := u.addresses.Delete(ctx, addressID); err != nil {
		return NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}
	return nil
}

func (u *AddressUsecase) SetDefault(ctx context.Context, customerID, addressID int64) error {
	if customerID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, CodeValidation, "unauthorized")
	}
	if addressID <= 0 {
		return NewHTTPError(http.StatusBadRequest, CodeValidation, "invalid id")
	}

	owned, err := u.addresses.IsOwnedByCustomer(ctx, addressID, customerID)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}
	if !owned {
		return NewHTTPError(http.StatusNotFound, CodeNotFound, "not found")
	}

	if err := u.addresses.SetDefault(ctx, customerID, addressID); err != nil {
		return NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}
	return nil
}

func toAddressOutput(a model.Address) AddressOutput {
	return AddressOutput{
		ID:        a.ID,
		Name:      a.Name,
		Phone:     a.Phone,
		City:      a.City,
		State:     a.State,
		Pincode:   a.Pincode,
		Line1:     a.Line1,
		IsDefault: a.IsDefault,
	}
}
