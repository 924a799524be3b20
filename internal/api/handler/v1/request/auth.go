package request

import (
	"errors"
	"regexp"

	"github.com/dlclark/regexp2"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

const (
	walletRegexPattern = `^0x[0-9a-fA-F]{40}$`
	// Lookaheads need regexp2; the stdlib engine doesn't support them.
	passwordRegexPattern = `^(?=.*[A-Za-z])(?=.*\d).{8,}$`
)

var (
	errInvalidWallet   = errors.New("the wallet address must be a 0x-prefixed 40 character hex string")
	errInvalidPassword = errors.New("the password must be at least 8 characters and contain 1 letter and 1 number")
)

type WalletLoginRequest struct {
	WalletAddress string `json:"wallet_address" binding:"required"`
	Email         string `json:"email,omitempty"`
}

func (req *WalletLoginRequest) Validate() error {
	err := validation.ValidateStruct(
		req,
		validation.Field(&req.WalletAddress, validation.Required),
		validation.Field(&req.Email, is.Email),
	)
	if err != nil {
		return err
	}

	walletExp := regexp.MustCompile(walletRegexPattern)
	if !walletExp.MatchString(req.WalletAddress) {
		return errInvalidWallet
	}

	return nil
}

type StaffSignupRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
	Name     string `json:"name" validate:"required"`
	Role     string `json:"role" binding:"required,oneof=staff admin"`
}

func (req *StaffSignupRequest) Validate() error {
	err := validation.ValidateStruct(
		req,
		validation.Field(&req.Email, validation.Required, is.Email),
		validation.Field(&req.Password, validation.Required),
		validation.Field(&req.Name, validation.Required, validation.Length(2, 50)),
		validation.Field(&req.Role, validation.Required, validation.In("staff", "admin")),
	)
	if err != nil {
		return err
	}

	passwordExp := regexp2.MustCompile(passwordRegexPattern, 0)
	if matched, _ := passwordExp.MatchString(req.Password); !matched {
		return errInvalidPassword
	}

	return nil
}

type StaffLoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (req *StaffLoginRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Email, validation.Required, is.Email),
		validation.Field(&req.Password, validation.Required),
	)
}
