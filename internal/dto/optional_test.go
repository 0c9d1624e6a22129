package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type patch struct {
	Telephone Optional[string]  `json:"telephone"`
	Note      Optional[float64] `json:"note"`
	ID        NumericID         `json:"etudiantId"`
}

func TestOptionalDistinguishesAbsentAndNull(t *testing.T) {
	var p patch
	require.NoError(t, json.Unmarshal([]byte(`{"telephone":null}`), &p))

	assert.True(t, p.Telephone.Set)
	assert.False(t, p.Telephone.Valid)
	assert.Nil(t, p.Telephone.Ptr())
	assert.False(t, p.Note.Set)
	assert.Nil(t, p.Note.ValidationValue())
}

func TestOptionalValue(t *testing.T) {
	var p patch
	require.NoError(t, json.Unmarshal([]byte(`{"telephone":"0601020304","note":14.5}`), &p))

	require.NotNil(t, p.Telephone.Ptr())
	assert.Equal(t, "0601020304", *p.Telephone.Ptr())
	assert.Equal(t, 14.5, p.Note.ValidationValue())
}

func TestOptionalRejectsWrongType(t *testing.T) {
	var p patch
	assert.Error(t, json.Unmarshal([]byte(`{"note":"abc"}`), &p))
	assert.Error(t, json.Unmarshal([]byte(`{"note":"NaN"}`), &p))
	assert.Error(t, json.Unmarshal([]byte(`{"note":true}`), &p))
	assert.Error(t, json.Unmarshal([]byte(`{"telephone":12}`), &p))
}

func TestOptionalCoercesNumericStrings(t *testing.T) {
	var p struct {
		Note     Optional[float64] `json:"note"`
		Semestre Optional[int]     `json:"semestre"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"note":" 15.5 ","semestre":"2"}`), &p))

	assert.Equal(t, Some(15.5), p.Note)
	assert.Equal(t, Some(2), p.Semestre)
	assert.Error(t, json.Unmarshal([]byte(`{"semestre":"1.5"}`), &p))
}

func TestNumericID(t *testing.T) {
	cases := map[string]struct {
		valid bool
		value int64
	}{
		`{"etudiantId":3}`:     {valid: true, value: 3},
		`{"etudiantId":"12"}`:  {valid: true, value: 12},
		`{"etudiantId":"abc"}`: {valid: false},
		`{"etudiantId":1.5}`:   {valid: false},
		`{"etudiantId":null}`:  {valid: false},
	}
	for body, want := range cases {
		var p patch
		require.NoError(t, json.Unmarshal([]byte(body), &p), body)
		assert.True(t, p.ID.Set, body)
		assert.Equal(t, want.valid, p.ID.Valid, body)
		if want.valid {
			assert.Equal(t, want.value, p.ID.ValidationValue(), body)
		} else {
			assert.Nil(t, p.ID.ValidationValue(), body)
		}
	}
}

func TestOptionalMarshal(t *testing.T) {
	out, err := json.Marshal(struct {
		A Optional[int] `json:"a"`
		B Optional[int] `json:"b"`
	}{A: Some(3), B: Null[int]()})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":3,"b":null}`, string(out))
}
