package model

import (
	"testing"
	"time"

	"github.com/rayymaxx/CinePal/entity"

	"github.com/stretchr/testify/assert"
)

func TestShowDataFromEntity(t *testing.T) {
	release := time.Date(2021, 10, 22, 0, 0, 0, 0, time.UTC)
	e := &entity.CachedShow{
		ShowID:      438631,
		Title:       "Dune",
		Type:        "movie",
		Genres:      `["Science Fiction","Adventure"]`,
		Plot:        "A noble family battles for a desert planet.",
		ReleaseDate: &release,
		Runtime:     "155 min",
		Cast:        `["Timothée Chalamet","Rebecca Ferguson"]`,
		Directors:   `["Denis Villeneuve"]`,
		TmdbRating:  7.8,
	}

	data := ShowDataFromEntity(e)
	assert.Equal(t, int64(438631), data.ShowID)
	assert.Equal(t, []string{"Science Fiction", "Adventure"}, data.Genres)
	assert.Equal(t, []string{"Denis Villeneuve"}, data.Directors)
	assert.Equal(t, "2021-10-22", data.ReleaseDate)
}

func TestShowDataFromEntityBadListFields(t *testing.T) {
	e := &entity.CachedShow{
		ShowID:    42,
		Title:     "Broken",
		Genres:    "not-json",
		Cast:      "{also broken",
		Directors: "",
	}

	// 反序列化失败不致命，字段降级为空列表
	data := ShowDataFromEntity(e)
	assert.Empty(t, data.Genres)
	assert.Empty(t, data.Cast)
	assert.Empty(t, data.Directors)
	assert.Equal(t, "Broken", data.Title)
}

func TestShowDataRoundTrip(t *testing.T) {
	data := &ShowData{
		ShowID:      157336,
		Title:       "Interstellar",
		Type:        "movie",
		Genres:      []string{"Science Fiction", "Drama"},
		ReleaseDate: "2014-11-05",
		Cast:        []string{"Matthew McConaughey"},
		Directors:   []string{"Christopher Nolan"},
		TmdbRating:  8.4,
	}

	back := ShowDataFromEntity(data.ToEntity())
	assert.Equal(t, data.Genres, back.Genres)
	assert.Equal(t, data.Cast, back.Cast)
	assert.Equal(t, data.Directors, back.Directors)
	assert.Equal(t, data.ReleaseDate, back.ReleaseDate)
}
