package httpx

import (
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"forumhub/internal/models"
	"forumhub/internal/util"
)

var (
	validatorOnce sync.Once
	trans         ut.Translator
)

// setupValidator registers the forumrole tag and English messages on gin's
// validator. It runs once per process.
func setupValidator() {
	validatorOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		if err := v.RegisterValidation("forumrole", validRole); err != nil {
			zap.L().Fatal("register forumrole validation", zap.Error(err))
		}

		enT := en.New()
		trans, _ = ut.New(enT, enT).GetTranslator("en")
		if err := enTranslations.RegisterDefaultTranslations(v, trans); err != nil {
			zap.L().Fatal("register validator translations", zap.Error(err))
		}
		_ = v.RegisterTranslation("forumrole", trans,
			func(t ut.Translator) error {
				return t.Add("forumrole", "{0} must be one of member, vip, moderator, admin", true)
			},
			func(t ut.Translator, fe validator.FieldError) string {
				msg, _ := t.T("forumrole", fe.Field())
				return msg
			})
	})
}

func validRole(fl validator.FieldLevel) bool {
	return models.Role(fl.Field().String()).Valid()
}

// badRequest answers 400 with the translated validation messages, or a
// generic message when the body could not be decoded at all.
func badRequest(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || trans == nil {
		util.Message(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fe.Translate(trans))
	}
	util.Message(c, http.StatusBadRequest, strings.Join(msgs, "; "))
}
