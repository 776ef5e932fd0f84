package http

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/bizledger-api/internal/domain"
	"github.com/jhoicas/bizledger-api/internal/domain/tax"
	"github.com/jhoicas/bizledger-api/pkg/bizno"
)

var phoneKRRe = regexp.MustCompile(`^01[016789]-?\d{3,4}-?\d{4}$`)

// Validator valida los DTO de entrada con las etiquetas validate y traduce los fallos
// a un *domain.ValidationError con mensajes en coreano por campo.
type Validator struct {
	v *validator.Validate
}

// NewValidator registra las reglas propias: bizno, taxtype y phone_kr.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "query", "form"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return f.Name
	})
	_ = v.RegisterValidation("bizno", func(fl validator.FieldLevel) bool {
		return bizno.ValidFormat(fl.Field().String())
	})
	_ = v.RegisterValidation("taxtype", func(fl validator.FieldLevel) bool {
		_, ok := tax.Parse(fl.Field().String())
		return ok
	})
	_ = v.RegisterValidation("phone_kr", func(fl validator.FieldLevel) bool {
		return phoneKRRe.MatchString(fl.Field().String())
	})
	return &Validator{v: v}
}

// Struct valida s; devuelve nil o *domain.ValidationError.
func (v *Validator) Struct(s any) error {
	err := v.v.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		key := fieldPath(fe)
		if _, seen := fields[key]; !seen {
			fields[key] = fieldMessage(fe)
		}
	}
	return &domain.ValidationError{Fields: fields}
}

// fieldPath quita el nombre del struct raíz: "SaleRequest.items[0].productName" -> "items[0].productName".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_without":
		return "필수 입력 항목입니다."
	case "email":
		return "올바른 이메일 형식이 아닙니다."
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("최소 %s자 이상 입력해주세요.", fe.Param())
		}
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("최소 %s개 이상 입력해주세요.", fe.Param())
		}
		return fmt.Sprintf("%s 이상이어야 합니다.", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("최대 %s자까지 입력할 수 있습니다.", fe.Param())
		}
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("최대 %s개까지 입력할 수 있습니다.", fe.Param())
		}
		return fmt.Sprintf("%s 이하이어야 합니다.", fe.Param())
	case "len":
		return fmt.Sprintf("%s자리로 입력해주세요.", fe.Param())
	case "numeric":
		return "숫자만 입력해주세요."
	case "oneof":
		return fmt.Sprintf("다음 중 하나여야 합니다: %s", fe.Param())
	case "uuid":
		return "올바른 ID 형식이 아닙니다."
	case "datetime":
		return "날짜는 YYYY-MM-DD 형식이어야 합니다."
	case "bizno":
		return "사업자등록번호는 000-00-00000 형식이어야 합니다."
	case "taxtype":
		return "과세 유형이 올바르지 않습니다."
	case "phone_kr":
		return "올바른 휴대폰 번호 형식이 아닙니다."
	default:
		return "입력값이 올바르지 않습니다."
	}
}

// bindBody parsea el JSON del cuerpo en dst y lo valida.
func bindBody(c *fiber.Ctx, v *Validator, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return ErrInvalidBody
	}
	return v.Struct(dst)
}

// bindQuery parsea el query string en dst y lo valida.
func bindQuery(c *fiber.Ctx, v *Validator, dst any) error {
	if err := c.QueryParser(dst); err != nil {
		return ErrInvalidBody
	}
	return v.Struct(dst)
}
