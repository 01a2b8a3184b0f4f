package form

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/shelf/internal/api"
)

func TestValidate(t *testing.T) {
	verr := Validate(api.Input{Name: ""})
	require.NotNil(t, verr)
	assert.Equal(t, "name is required", verr.Field("name"))

	verr = Validate(api.Input{Name: "   "})
	require.NotNil(t, verr)
	assert.Equal(t, "name is required", verr.Field("name"))

	verr = Validate(api.Input{Name: strings.Repeat("A", 101)})
	require.NotNil(t, verr)
	assert.Equal(t, "name must be at most 100 characters", verr.Field("name"))
	assert.Equal(t, "name must be at most 100 characters", verr.Error())

	assert.Nil(t, Validate(api.Input{Name: "Valid"}))
	assert.Nil(t, Validate(api.Input{Name: strings.Repeat("é", 100)}))
}

func TestDetectType(t *testing.T) {
	cases := []struct {
		value api.Value
		want  FieldType
	}{
		{api.Number(12), TypeNumber},
		{api.Bool(false), TypeBoolean},
		{api.String("$1,200"), TypePrice},
		{api.String("Silver"), TypeText},
		{api.String("12"), TypeText},
		{api.Null(), TypeText},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, DetectType(tc.value), tc.value.String())
	}
}

func TestFieldsFromObject(t *testing.T) {
	obj := api.Object{
		ID:   "1",
		Name: "Apple AirPods",
		Data: api.Attributes{}.
			Set("price", api.Number(120)).
			Set("in stock", api.Bool(false)).
			Set("generation", api.String("3rd")).
			Set("capacity", api.Null()),
	}
	assert.Equal(t, []Field{
		{Key: "price", Type: TypeNumber, Value: "120"},
		{Key: "in stock", Type: TypeBoolean, Value: "false"},
		{Key: "generation", Type: TypeText, Value: "3rd"},
		{Key: "capacity", Type: TypeText, Value: ""},
	}, FieldsFromObject(obj))

	assert.Empty(t, FieldsFromObject(api.Object{Name: "bare"}))
}

func TestCoerce(t *testing.T) {
	assert.Equal(t, api.Number(99.5), Field{Type: TypePrice, Value: "99.5"}.Coerce())
	assert.Equal(t, api.Number(12), Field{Type: TypeNumber, Value: "12 GB"}.Coerce())
	assert.Equal(t, api.String("$12"), Field{Type: TypePrice, Value: "$12"}.Coerce())
	assert.Equal(t, api.String("lots"), Field{Type: TypeNumber, Value: "lots"}.Coerce())
	assert.Equal(t, api.Bool(true), Field{Type: TypeBoolean, Value: "TRUE"}.Coerce())
	assert.Equal(t, api.Bool(false), Field{Type: TypeBoolean, Value: "yes"}.Coerce())
	assert.Equal(t, api.String(" raw "), Field{Type: TypeText, Value: " raw "}.Coerce())
}

func TestBuild(t *testing.T) {
	in := Build("  Phone X  ", []Field{
		{Key: " price ", Type: TypePrice, Value: "99.5"},
		{Key: "   ", Type: TypeText, Value: "dropped"},
		{Key: "color", Type: TypeText, Value: "red"},
		{Key: "price", Type: TypeNumber, Value: "89"},
	})
	assert.Equal(t, "Phone X", in.Name)
	assert.Equal(t, []string{"price", "color"}, in.Data.Keys())
	price, _ := in.Data.Get("price")
	assert.Equal(t, api.Number(89), price)

	empty := Build("Bare", []Field{{Key: "", Value: "x"}})
	assert.Nil(t, empty.Data)
	assert.Equal(t, `{"name":"Bare","data":null}`, mustJSON(t, empty))
}

func TestBuildPatch(t *testing.T) {
	name := " New "
	patch := BuildPatch(&name, nil)
	require.NotNil(t, patch.Name)
	assert.Equal(t, "New", *patch.Name)
	assert.Nil(t, patch.Data)

	patch = BuildPatch(nil, []Field{{Key: "color", Type: TypeText, Value: "blue"}})
	assert.Nil(t, patch.Name)
	assert.Equal(t, `{"data":{"color":"blue"}}`, mustJSON(t, patch))
}

func TestParseFieldSpec(t *testing.T) {
	f, err := ParseFieldSpec("price:price=$12")
	require.NoError(t, err)
	assert.Equal(t, Field{Key: "price", Type: TypePrice, Value: "$12"}, f)

	f, err = ParseFieldSpec("year=2019")
	require.NoError(t, err)
	assert.Equal(t, TypeNumber, f.Type)

	f, err = ParseFieldSpec("in stock=True")
	require.NoError(t, err)
	assert.Equal(t, Field{Key: "in stock", Type: TypeBoolean, Value: "True"}, f)

	f, err = ParseFieldSpec("ratio:16:9=wide")
	require.NoError(t, err)
	assert.Equal(t, "ratio:16:9", f.Key)
	assert.Equal(t, TypeText, f.Type)

	f, err = ParseFieldSpec("note=a=b")
	require.NoError(t, err)
	assert.Equal(t, "a=b", f.Value)

	_, err = ParseFieldSpec("novalue")
	assert.Error(t, err)
	_, err = ParseFieldSpec(":number=1")
	assert.Error(t, err)
}

func TestFieldTypeCycle(t *testing.T) {
	assert.Equal(t, TypeNumber, TypeText.Next())
	assert.Equal(t, TypeText, TypeBoolean.Next())
	assert.Equal(t, TypeText, FieldType("bogus").Next())

	_, err := ParseType("decimal")
	assert.Error(t, err)
}
