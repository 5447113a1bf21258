package validation

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/imrishuroy/go-pedidos-orderflow/internal/pedidos"
)

// BindAndValidate binds the JSON body into out and runs validation. Both
// unparseable bodies and rule violations come back as InvalidPedidoFormat.
func BindAndValidate(c *gin.Context, out interface{}, v *validatorv10.Validate) error {
	if err := c.ShouldBindJSON(out); err != nil {
		return &pedidos.Error{Kind: pedidos.KindInvalidFormat, Message: "invalid request body", Err: err}
	}

	if err := v.Struct(out); err != nil {
		return pedidos.InvalidFormat(describe(err))
	}
	return nil
}

func describe(err error) string {
	fields := validationErrorsToMap(err)
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func validationErrorsToMap(err error) map[string]string {
	out := map[string]string{}
	var ve validatorv10.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			out[fieldPath(fe)] = ruleMessage(fe)
		}
	} else {
		out["error"] = err.Error()
	}
	return out
}

// fieldPath drops the root struct name: "tareas[0].producto".
func fieldPath(fe validatorv10.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func ruleMessage(fe validatorv10.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return "is required"
	case "taxrate":
		return "is outside the accepted tax rate range"
	case "oneof":
		return "must be one of " + fe.Param()
	}
	return "failed " + fe.Tag()
}
