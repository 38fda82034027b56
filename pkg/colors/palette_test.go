package colors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignFirstSeenOrder(t *testing.T) {
	a := Assign([]string{"Dev", "Ops", "Dev", "QA"}, nil)

	assert.Equal(t, []string{"Dev", "Ops", "QA"}, a.Categories())
	assert.Equal(t, 3, a.Len())
	assert.Equal(t, DefaultPalette[0], a.Color("Dev"))
	assert.Equal(t, DefaultPalette[1], a.Color("Ops"))
	assert.Equal(t, DefaultPalette[2], a.Color("QA"))
	assert.Equal(t, -1, a.Index("missing"))
	assert.Equal(t, DefaultPalette[0], a.Color("missing"))
}

func TestAssignCyclesOverPalette(t *testing.T) {
	palette := []string{"#000001", "#000002", "#000003", "#000004", "#000005",
		"#000006", "#000007", "#000008", "#000009", "#00000a"}
	var cats []string
	for i := 1; i <= 15; i++ {
		cats = append(cats, fmt.Sprintf("cat-%02d", i))
	}

	a := Assign(cats, palette)

	for i := 11; i <= 15; i++ {
		assert.Equal(t, palette[i-11], a.Color(fmt.Sprintf("cat-%02d", i)))
		assert.Equal(t, a.Color(fmt.Sprintf("cat-%02d", i-10)), a.Color(fmt.Sprintf("cat-%02d", i)))
	}
}

func TestAssignIsStable(t *testing.T) {
	first := Assign([]string{"b", "a", "c"}, nil)
	second := Assign([]string{"b", "b", "a", "a", "c"}, nil)
	for _, c := range []string{"a", "b", "c"} {
		assert.Equal(t, first.Color(c), second.Color(c))
	}
}

func TestCalendarColorID(t *testing.T) {
	var cats []string
	for i := 0; i < 13; i++ {
		cats = append(cats, fmt.Sprint(i))
	}
	a := Assign(cats, nil)
	assert.Equal(t, "1", a.CalendarColorID("0"))
	assert.Equal(t, "11", a.CalendarColorID("10"))
	assert.Equal(t, "1", a.CalendarColorID("11"))
	assert.Equal(t, "1", a.CalendarColorID("unknown"))
}

func TestRGB(t *testing.T) {
	r, g, b, err := RGB("#4e79a7")
	require.NoError(t, err)
	assert.Equal(t, []int{0x4e, 0x79, 0xa7}, []int{r, g, b})

	_, _, _, err = RGB("blue")
	assert.Error(t, err)
	_, _, _, err = RGB("#zzzzzz")
	assert.Error(t, err)
}
