package model

import (
	"fmt"
	"regexp"

	log "github.com/sirupsen/logrus"
)

const (
	ErrorUserNameEmpty      = 100001
	ErrorUserPasswordEmpty  = 100002
	ErrorUserNameOrPassword = 100003
	ErrorUserNotExist       = 100004
	ErrorUserExist          = 100005
	ErrorUserForbidden      = 100006
	ErrorPasswordMismatch   = 100007
	ErrorParams             = 100008
	ErrorEmptyId            = 100009
	ErrorNewRepo            = 100010
	ErrorMakeToken          = 100011
	ErrorInvalidToken       = 100012
	ErrorDB                 = 100013
	ErrorLLM                = 100014
	ErrorIntentParse        = 100015
	ErrorResponseEmpty      = 100016
	ErrorShowNotFound       = 100017
	ErrorExternalService    = 100018
)

var ErrorMessages = map[int]string{
	ErrorUserNameEmpty:      "username must not be empty",
	ErrorUserPasswordEmpty:  "password must not be empty",
	ErrorUserNameOrPassword: "invalid username or password",
	ErrorUserNotExist:       "user does not exist",
	ErrorUserExist:          "the username already exists",
	ErrorUserForbidden:      "user account is disabled",
	ErrorPasswordMismatch:   "passwords do not match",
	ErrorParams:             "invalid parameters",
	ErrorEmptyId:            "id is empty",
	ErrorNewRepo:            "failed to create repository",
	ErrorMakeToken:          "failed to create token",
	ErrorInvalidToken:       "could not validate credentials",
	ErrorDB:                 "db error",
	ErrorLLM:                "language model error",
	ErrorIntentParse:        "failed to parse intent",
	ErrorResponseEmpty:      "response generation returned empty output",
	ErrorShowNotFound:       "show not found",
	ErrorExternalService:    "external service error",
}

type Error struct {
	Code       int    `json:"code"`
	Message    string `json:"message"`
	InnerError error  `json:"inner_error"`
}

func (err Error) Error() string {
	return err.Message
}

func (err Error) String() string {
	if err.InnerError == nil {
		return err.Message
	}
	return err.InnerError.Error()
}

func NewError(code int, innerError error) *Error {
	if innerError != nil {
		var re = regexp.MustCompile(`[\n\t]+`)
		innerErrorString := re.ReplaceAllString(fmt.Sprintf("%+v", innerError), " ")
		log.Errorf("NewError code:%d, message:%s, innerError:%+v\n", code, ErrorMessages[code], innerErrorString)
	}
	return &Error{
		Code:       code,
		Message:    ErrorMessages[code],
		InnerError: nil,
	}
}

func NewErrorWithMessage(code int, message string) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		InnerError: nil,
	}
}
