//go:build gui

package gui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"voiceout/log"
	"voiceout/shortcut"
	"voiceout/tray"
	"voiceout/view"
)

type App struct {
	fyneApp fyne.App
	window  fyne.Window
	onReady func()

	conn view.Conn
	main *view.Main
	rec  *view.Recorder
	mods modState

	mainLabel     *widget.Label
	shortcutLabel *widget.Label
	settings      *fyne.Container
	settingsBtn   *widget.Button
}

func NewApp(onReady func()) *App {
	return &App{
		onReady: onReady,
		main:    view.NewMain(),
		rec:     view.NewRecorder(),
	}
}

func Run(a *App) error {
	a.fyneApp = app.NewWithID("io.voiceout.gui")
	a.fyneApp.Settings().SetTheme(&darkTheme{})

	if desk, ok := a.fyneApp.(desktop.App); ok {
		icon := fyne.NewStaticResource("tray.png", tray.Icon(44))
		quit := fyne.NewMenuItem("Quit", func() {
			a.fyneApp.Quit()
		})
		quit.IsQuit = true
		menu := fyne.NewMenu("voiceout",
			fyne.NewMenuItem("Settings", func() {
				a.openSettings()
			}),
			quit,
		)
		desk.SetSystemTrayMenu(menu)
		desk.SetSystemTrayIcon(icon)
	}

	a.window = a.fyneApp.NewWindow("voiceout")
	a.window.SetContent(a.build())
	a.window.Resize(fyne.NewSize(420, 220))
	a.window.SetCloseIntercept(func() { a.window.Hide() })

	if dc, ok := a.window.Canvas().(desktop.Canvas); ok {
		dc.SetOnKeyDown(a.keyDown)
		dc.SetOnKeyUp(func(ev *fyne.KeyEvent) { a.mods.up(ev.Name) })
	}

	a.render()
	a.window.Show()

	go a.onReady()

	a.fyneApp.Run()
	return nil
}

func (a *App) build() fyne.CanvasObject {
	a.mainLabel = widget.NewLabel("")
	a.mainLabel.Alignment = fyne.TextAlignCenter
	a.settingsBtn = widget.NewButton("Settings", a.openSettings)

	a.shortcutLabel = widget.NewLabel("")
	a.shortcutLabel.TextStyle = fyne.TextStyle{Bold: true}
	a.shortcutLabel.Alignment = fyne.TextAlignCenter

	record := widget.NewButton("Record", func() {
		a.mods.clear()
		a.rec.Start()
		a.render()
	})
	reset := widget.NewButton("Reset", func() {
		s := a.rec.Reset()
		a.main.Shortcut = s
		a.send(s)
		a.render()
	})
	back := widget.NewButton("Back", func() {
		a.rec.Cancel()
		if a.main.SettingsOpen {
			a.main.ToggleSettings()
		}
		a.render()
	})

	a.settings = container.NewVBox(
		widget.NewSeparator(),
		a.shortcutLabel,
		container.NewGridWithColumns(3, record, reset, back),
	)
	a.settings.Hide()

	return container.NewVBox(a.mainLabel, a.settingsBtn, a.settings)
}

// Attach connects the window to the background. Call from any goroutine.
func (a *App) Attach(c view.Conn) (func(), error) {
	fyne.DoAndWait(func() { a.conn = c })
	return view.Mount(c, func(s shortcut.Shortcut) {
		fyne.Do(func() {
			a.main.Shortcut = s
			a.rec.Set(s)
			a.render()
		})
	})
}

func (a *App) Quit() {
	if a.fyneApp != nil {
		fyne.Do(a.fyneApp.Quit)
	}
}

func (a *App) openSettings() {
	if !a.main.SettingsOpen {
		a.main.ToggleSettings()
	}
	a.render()
	a.window.Show()
	a.window.RequestFocus()
}

func (a *App) keyDown(ev *fyne.KeyEvent) {
	kev, ok := a.mods.down(ev.Name)
	if !ok || !a.rec.Recording() {
		return
	}
	s, ok := a.rec.KeyDown(kev)
	if !ok {
		return
	}
	a.main.Shortcut = s
	a.send(s)
	a.render()
}

func (a *App) send(s shortcut.Shortcut) {
	if a.conn == nil {
		return
	}
	if err := view.SendShortcut(a.conn, s); err != nil {
		log.Warnf("send shortcut: %v", err)
	}
}

// render copies view state into widgets; callers are on the Fyne thread.
func (a *App) render() {
	a.mainLabel.SetText(a.main.Text())
	a.shortcutLabel.SetText(a.rec.Text())
	if a.main.SettingsOpen {
		a.settings.Show()
		a.settingsBtn.Hide()
	} else {
		a.settings.Hide()
		a.settingsBtn.Show()
	}
}
