package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPictures_ValueAndScan(t *testing.T) {
	pics := Pictures{
		{URL: "http://cdn/airbnb/rooms/r1/a.jpg", PictureID: "airbnb/rooms/r1/a.jpg"},
		{URL: "http://cdn/airbnb/rooms/r1/b.png", PictureID: "airbnb/rooms/r1/b.png"},
	}

	v, err := pics.Value()
	require.NoError(t, err)

	var scanned Pictures
	require.NoError(t, scanned.Scan([]byte(v.(string))))
	assert.Equal(t, pics, scanned)
}

func TestPictures_NilAndNull(t *testing.T) {
	v, err := Pictures(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)

	var scanned Pictures
	require.NoError(t, scanned.Scan(nil))
	assert.NotNil(t, scanned)
	assert.Len(t, scanned, 0)

	require.NoError(t, scanned.Scan("null"))
	assert.NotNil(t, scanned)
}

func TestPicture_ScanRejectsUnknownType(t *testing.T) {
	var p Picture
	assert.Error(t, p.Scan(42))
}

func TestLocation(t *testing.T) {
	loc := NewLocation(10, 20)
	assert.Equal(t, 10.0, loc.Lat())
	assert.Equal(t, 20.0, loc.Lng())

	v, err := loc.Value()
	require.NoError(t, err)

	var scanned Location
	require.NoError(t, scanned.Scan([]byte(v.(string))))
	assert.Equal(t, loc, scanned)

	var empty Location
	assert.Equal(t, 0.0, empty.Lat())
	assert.Equal(t, 0.0, empty.Lng())
}
