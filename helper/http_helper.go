package helper

import (
	"errors"
	"net/http"

	"newsdesk/models"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"gopkg.in/go-playground/validator.v9"
	en_translations "gopkg.in/go-playground/validator.v9/translations/en"
)

const (
	textError = `error`
	textOk    = `ok`

	codeSuccess         = 200
	codeBadRequest      = 400
	codeUnauthorized    = 401
	codeForbidden       = 403
	codeNotFound        = 404
	codeConflict        = 409
	codeValidationError = 422
	codeInternalError   = 500
)

// ResponseHelper ...
type ResponseHelper struct {
	C          *gin.Context
	Status     string
	Message    interface{}
	Data       interface{}
	Code       int // not the http code
	CodeType   string
	HTTPStatus int
}

// HTTPHelper ...
type HTTPHelper struct {
	Validate   *validator.Validate
	Translator ut.Translator
}

// NewHTTPHelper wires a validator with English error translations.
func NewHTTPHelper() *HTTPHelper {
	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")

	validate := validator.New()
	_ = en_translations.RegisterDefaultTranslations(validate, trans)

	return &HTTPHelper{Validate: validate, Translator: trans}
}

// GetStatusCode ...
// Map a service error to its HTTP status.
func (u *HTTPHelper) GetStatusCode(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var (
		unauthorized models.ErrorUnauthorized
		forbidden    models.ErrorForbidden
		notFound     models.ErrorNotFound
		validation   models.ErrorValidation
		conflict     models.ErrorConflict
	)
	switch {
	case errors.As(err, &unauthorized):
		return http.StatusUnauthorized
	case errors.As(err, &forbidden):
		return http.StatusForbidden
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &conflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// SetResponse ...
// Set response data.
func (u *HTTPHelper) SetResponse(c *gin.Context, status string, message interface{}, data interface{}, code int, codeType string, httpStatus int) ResponseHelper {
	return ResponseHelper{c, status, message, data, code, codeType, httpStatus}
}

// SendError ...
// Send the response matching a service error. Internal errors are not
// echoed back to the client.
func (u *HTTPHelper) SendError(c *gin.Context, err error) error {
	status := u.GetStatusCode(err)
	message := err.Error()

	var codeType string
	switch status {
	case http.StatusUnauthorized:
		codeType = `unAuthorized`
	case http.StatusForbidden:
		codeType = `forbidden`
	case http.StatusNotFound:
		codeType = `notFound`
	case http.StatusBadRequest:
		codeType = `badRequest`
	case http.StatusConflict:
		codeType = `conflict`
	default:
		codeType = `internalError`
		message = "internal server error"
		_ = c.Error(err)
	}

	res := u.SetResponse(c, textError, message, u.EmptyJsonMap(), status, codeType, status)
	return u.SendResponse(res)
}

// SendBadRequest ...
// Send bad request response to consumers.
func (u *HTTPHelper) SendBadRequest(c *gin.Context, message string, data interface{}) error {
	res := u.SetResponse(c, textError, message, data, codeBadRequest, `badRequest`, http.StatusBadRequest)

	return u.SendResponse(res)
}

// SendValidationError ...
// Send validation error response to consumers.
func (u *HTTPHelper) SendValidationError(c *gin.Context, validationErrors validator.ValidationErrors) error {
	errorResponse := map[string][]string{}
	errorTranslation := validationErrors.Translate(u.Translator)
	for _, err := range validationErrors {
		errKey := Underscore(err.StructField())
		errorResponse[errKey] = append(errorResponse[errKey], errorTranslation[err.Namespace()])
	}

	res := u.SetResponse(c, textError, errorResponse, u.EmptyJsonMap(), codeValidationError, `validationError`, http.StatusBadRequest)
	return u.SendResponse(res)
}

// SendUnauthorizedError ...
// Send unauthorized response to consumers.
func (u *HTTPHelper) SendUnauthorizedError(c *gin.Context, message string) error {
	res := u.SetResponse(c, textError, message, u.EmptyJsonMap(), codeUnauthorized, `unAuthorized`, http.StatusUnauthorized)
	return u.SendResponse(res)
}

// SendForbiddenError ...
func (u *HTTPHelper) SendForbiddenError(c *gin.Context, message string) error {
	res := u.SetResponse(c, textError, message, u.EmptyJsonMap(), codeForbidden, `forbidden`, http.StatusForbidden)
	return u.SendResponse(res)
}

// SendTooManyRequests ...
func (u *HTTPHelper) SendTooManyRequests(c *gin.Context, message string) error {
	res := u.SetResponse(c, textError, message, u.EmptyJsonMap(), http.StatusTooManyRequests, `tooManyRequests`, http.StatusTooManyRequests)
	return u.SendResponse(res)
}

// SendSuccess ...
// Send success response to consumers.
func (u *HTTPHelper) SendSuccess(c *gin.Context, message string, data interface{}) error {
	res := u.SetResponse(c, textOk, message, data, codeSuccess, `success`, http.StatusOK)

	return u.SendResponse(res)
}

// SendCreated ...
func (u *HTTPHelper) SendCreated(c *gin.Context, message string, data interface{}) error {
	res := u.SetResponse(c, textOk, message, data, http.StatusCreated, `created`, http.StatusCreated)

	return u.SendResponse(res)
}

// SendResponse ...
// Send response
func (u *HTTPHelper) SendResponse(res ResponseHelper) error {
	if s, ok := res.Message.(string); ok && len(s) == 0 {
		res.Message = `success`
	}
	if res.HTTPStatus == 0 {
		res.HTTPStatus = http.StatusOK
	}

	res.C.JSON(res.HTTPStatus, map[string]interface{}{
		"code":         res.Code,
		"code_type":    res.CodeType,
		"code_message": res.Message,
		"data":         res.Data,
	})
	return nil
}

func (u *HTTPHelper) EmptyJsonMap() map[string]interface{} {
	return make(map[string]interface{})
}

// BindAndValidate binds a JSON or form body into req and runs the validator.
// It writes the error response itself and returns false when the request
// must not proceed.
func (u *HTTPHelper) BindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBind(req); err != nil {
		u.SendBadRequest(c, "Invalid request payload", u.EmptyJsonMap())
		return false
	}
	if err := u.Validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			u.SendValidationError(c, verrs)
			return false
		}
		u.SendBadRequest(c, err.Error(), u.EmptyJsonMap())
		return false
	}
	return true
}
