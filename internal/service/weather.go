package service

import (
	"fmt"
	"strings"

	"github.com/jask/voxelcmd/internal/commands"
)

// WeatherPluginName is the name the weather plugin is hosted under.
const WeatherPluginName = "voxel-weather"

var weatherKinds = []string{"clear", "rain", "thunder"}

// CommandHost accepts commands from other plugins.
type CommandHost interface {
	Register(name string, cmd commands.Command, usage, help string) error
	Unregister(name string, cmd commands.Command) error
}

// WeatherPlugin adds the .weather command while enabled.
type WeatherPlugin struct {
	Host    CommandHost
	Console commands.Console

	current string
	cmd     commands.Command
}

func (w *WeatherPlugin) Name() string { return WeatherPluginName }

// Weather returns the current weather.
func (w *WeatherPlugin) Weather() string {
	if w.current == "" {
		return weatherKinds[0]
	}
	return w.current
}

func (w *WeatherPlugin) Enable() error {
	if w.cmd != nil {
		return nil
	}
	cmd := commands.Func(w.invoke)
	if err := w.Host.Register("weather", cmd, "["+strings.Join(weatherKinds, "|")+"]", "show or change the weather"); err != nil {
		return err
	}
	w.cmd = cmd
	return nil
}

func (w *WeatherPlugin) Disable() error {
	if w.cmd == nil {
		return nil
	}
	if err := w.Host.Unregister("weather", w.cmd); err != nil {
		return err
	}
	w.cmd = nil
	return nil
}

func (w *WeatherPlugin) invoke(args []string) {
	if len(args) == 0 {
		w.Console.Log("Weather: " + w.Weather())
		return
	}
	kind := strings.ToLower(args[0])
	for _, k := range weatherKinds {
		if k == kind {
			w.current = k
			w.Console.Log("Weather set to " + k)
			return
		}
	}
	w.Console.Log(fmt.Sprintf("Unknown weather %q: usage %sweather [%s]", args[0], commands.Marker, strings.Join(weatherKinds, "|")))
}
