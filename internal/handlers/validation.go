package handlers

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/prasetyodamongi/sp-fs-prasetyo-damongi/internal/models"
	"github.com/prasetyodamongi/sp-fs-prasetyo-damongi/internal/utils"
)

var registerOnce sync.Once

// RegisterValidators adds the custom tags used by request structs to gin's
// validator engine. It panics when a tag cannot be registered.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			panic("gin validator engine is not go-playground/validator")
		}

		if err := v.RegisterValidation("taskstatus", validTaskStatus); err != nil {
			panic(fmt.Sprintf("register taskstatus validator: %v", err))
		}
	})
}

func validTaskStatus(fl validator.FieldLevel) bool {
	return models.TaskStatus(fl.Field().String()).Valid()
}

// bindJSON binds the body and answers 400 with a readable message on failure.
func bindJSON(ctx *gin.Context, dst interface{}) bool {
	if err := ctx.ShouldBindJSON(dst); err != nil {
		utils.RespondBadRequest(ctx, bindErrorMessage(err))
		return false
	}
	return true
}

func bindErrorMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Invalid request"
	}

	fe := verrs[0]
	field := fe.Field()

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "taskstatus":
		return "Status must be one of TODO, IN_PROGRESS, DONE"
	}

	return fmt.Sprintf("%s is invalid", field)
}
