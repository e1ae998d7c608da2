package flash_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/flash"
)

func TestLevelString(t *testing.T) {
	t.Parallel()

	require.Equal(t, "debug", flash.LevelDebug.String())
	require.Equal(t, "info", flash.LevelInfo.String())
	require.Equal(t, "success", flash.LevelSuccess.String())
	require.Equal(t, "warning", flash.LevelWarning.String())
	require.Equal(t, "error", flash.LevelError.String())
	require.Equal(t, "unknown(42)", flash.Level(42).String())
}

func TestLevelOrdering(t *testing.T) {
	t.Parallel()

	require.True(t, flash.LevelDebug < flash.LevelInfo)
	require.True(t, flash.LevelInfo < flash.LevelSuccess)
	require.True(t, flash.LevelSuccess < flash.LevelWarning)
	require.True(t, flash.LevelWarning < flash.LevelError)
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	t.Run("known levels", func(t *testing.T) {
		t.Parallel()

		for want, name := range map[flash.Level]string{
			flash.LevelDebug:   "debug",
			flash.LevelInfo:    "info",
			flash.LevelSuccess: "success",
			flash.LevelWarning: "warning",
			flash.LevelError:   "error",
		} {
			got, err := flash.ParseLevel(name)
			require.NoError(t, err)
			require.Equal(t, want, got)
		}
	})

	t.Run("unknown level", func(t *testing.T) {
		t.Parallel()

		_, err := flash.ParseLevel("fatal")
		require.ErrorIs(t, err, flash.ErrUnknownLevel)
	})
}

func TestLevelJSON(t *testing.T) {
	t.Parallel()

	t.Run("marshal", func(t *testing.T) {
		t.Parallel()

		data, err := json.Marshal(flash.LevelSuccess)
		require.NoError(t, err)
		require.JSONEq(t, `"success"`, string(data))
	})

	t.Run("marshal unknown level fails", func(t *testing.T) {
		t.Parallel()

		_, err := json.Marshal(flash.Level(42))
		require.ErrorIs(t, err, flash.ErrUnknownLevel)
	})

	t.Run("unmarshal", func(t *testing.T) {
		t.Parallel()

		var l flash.Level
		require.NoError(t, json.Unmarshal([]byte(`"warning"`), &l))
		require.Equal(t, flash.LevelWarning, l)
	})

	t.Run("unmarshal unknown name fails", func(t *testing.T) {
		t.Parallel()

		var l flash.Level
		err := json.Unmarshal([]byte(`"fatal"`), &l)
		require.ErrorIs(t, err, flash.ErrUnknownLevel)
	})

	t.Run("unmarshal non-string fails", func(t *testing.T) {
		t.Parallel()

		var l flash.Level
		require.Error(t, json.Unmarshal([]byte(`2`), &l))
	})
}

func TestMessageJSON(t *testing.T) {
	t.Parallel()

	m := flash.NewMessage(flash.LevelInfo, "Item saved successfully")

	data, err := json.Marshal(m)
	require.NoError(t, err)
	require.JSONEq(t, `{"level":"info","text":"Item saved successfully"}`, string(data))

	var decoded flash.Message
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Equal(t, m, decoded)
}
