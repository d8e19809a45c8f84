// Package ui hosts a sliding panel in a Bubble Tea program.
//
// PanelView translates terminal input into panel calls: mouse presses,
// motion and releases become pointer events, window resizes become layouts,
// and frame ticks drive the settle animation while one is running.
// AppModel is the sample screen around it: it listens to the panel, shows
// the latest notification as a status line and binds keys to panel commands.
package ui
