package domain

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// RawSeriesRecord is one series as delivered by the match-data source, before normalization.
type RawSeriesRecord struct {
	SeriesID    string       `json:"series_id"`
	StartTime   string       `json:"start_time"`
	Tournament  Tournament   `json:"tournament"`
	Teams       []SeriesTeam `json:"teams"`
	SeriesState SeriesState  `json:"series_state"`
}

type SeriesTeam struct {
	BaseInfo struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"baseInfo"`
}

type SeriesState struct {
	Valid     *bool     `json:"valid,omitempty"`
	Finished  *bool     `json:"finished,omitempty"`
	StartedAt string    `json:"startedAt,omitempty"`
	Teams     []RawTeam `json:"teams,omitempty"`
	Games     []RawGame `json:"games,omitempty"`
}

type RawGame struct {
	SequenceNumber FlexInt   `json:"sequenceNumber"`
	Teams          []RawTeam `json:"teams"`
}

// RawTeam fields are all optional upstream; absent numbers decode as zero.
type RawTeam struct {
	ID      FlexString  `json:"id"`
	Name    string      `json:"name,omitempty"`
	Won     *bool       `json:"won"`
	Score   *FlexInt    `json:"score,omitempty"`
	Kills   FlexInt     `json:"kills"`
	Deaths  FlexInt     `json:"deaths"`
	Players []RawPlayer `json:"players,omitempty"`
}

type RawPlayer struct {
	ID        FlexString   `json:"id"`
	Name      string       `json:"name,omitempty"`
	Kills     FlexInt      `json:"kills"`
	Deaths    FlexInt      `json:"deaths"`
	Character CharacterRef `json:"character,omitempty"`
	Champion  CharacterRef `json:"champion,omitempty"`
	Agent     CharacterRef `json:"agent,omitempty"`
	Role      FlexString   `json:"role,omitempty"`
	Lane      FlexString   `json:"lane,omitempty"`
	Position  FlexString   `json:"position,omitempty"`
}

// CharacterRef accepts either a bare string or an object with name/id.
type CharacterRef struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

func (c *CharacterRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '{' {
		var obj struct {
			ID   FlexString `json:"id"`
			Name string     `json:"name"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		c.ID, c.Name = string(obj.ID), obj.Name
		return nil
	}
	var s FlexString
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	c.Name = string(s)
	return nil
}

// Value prefers the display name and falls back to the id.
func (c CharacterRef) Value() string {
	if c.Name != "" {
		return c.Name
	}
	return c.ID
}

// FlexString decodes strings, numbers and booleans into their string form.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	*f = FlexString(string(data))
	return nil
}

// FlexInt decodes numbers or numeric strings; anything unparseable becomes zero.
type FlexInt int

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(bytes.TrimSpace(data)), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		*f = FlexInt(n)
		return nil
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		*f = FlexInt(int(v))
		return nil
	}
	*f = 0
	return nil
}

func (f FlexInt) Int() int {
	return int(f)
}
