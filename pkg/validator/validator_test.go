package validator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/backoffice-api/pkg/validator"
)

type item struct {
	Quantity int `json:"quantity" validate:"min=1"`
}

type payload struct {
	Name  *string `json:"name" validate:"omitempty,min=1,max=10"`
	Email string  `json:"email" validate:"required,email"`
	Role  string  `json:"role" validate:"omitempty,role_name"`
	Items []item  `json:"items" validate:"dive"`
}

func TestValidateStruct_UsaNombresJSON(t *testing.T) {
	long := "nombre-demasiado-largo"
	errs := validator.ValidateStruct(payload{
		Name:  &long,
		Email: "no-es-email",
		Role:  "Admin!",
		Items: []item{{Quantity: 0}},
	})
	require.Len(t, errs, 4)

	fields := map[string]string{}
	for _, e := range errs {
		fields[e.Field] = e.Tag
	}
	assert.Equal(t, "max", fields["name"])
	assert.Equal(t, "email", fields["email"])
	assert.Equal(t, "role_name", fields["role"])
	assert.Equal(t, "min", fields["items[0].quantity"])
	assert.NotEmpty(t, validator.Summary(errs))
}

func TestValidateStruct_Valido(t *testing.T) {
	errs := validator.ValidateStruct(payload{Email: "a@b.co", Role: "supervisor"})
	assert.Nil(t, errs)
}

func TestIsRoleName(t *testing.T) {
	assert.True(t, validator.IsRoleName("cashier"))
	assert.True(t, validator.IsRoleName("turno_noche"))
	assert.False(t, validator.IsRoleName("A"))
	assert.False(t, validator.IsRoleName("con espacio"))
}

func TestUUIDOrEmpty(t *testing.T) {
	type ref struct {
		ID  string  `json:"id" validate:"uuid_or_empty"`
		Ref *string `json:"ref" validate:"omitempty,uuid_or_empty"`
	}
	empty, upper, bad := "", "3F2504E0-4F89-11D3-9A0C-0305E82C3301", "no-es-uuid"

	assert.Nil(t, validator.ValidateStruct(ref{}))
	assert.Nil(t, validator.ValidateStruct(ref{ID: upper, Ref: &empty}))
	assert.Nil(t, validator.ValidateStruct(ref{Ref: &upper}))

	errs := validator.ValidateStruct(ref{ID: bad, Ref: &bad})
	require.Len(t, errs, 2)
	assert.Equal(t, "uuid_or_empty", errs[0].Tag)
}
