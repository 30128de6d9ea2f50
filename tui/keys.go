package tui

const (
	keyCompare = "ctrl+d"
	keyRun     = "ctrl+r"
	keyClear   = "ctrl+l"
	keyOpen    = "ctrl+o"
	keyFocus   = "tab"
	keyDismiss = "esc"
	keyConfirm = "enter"
	keyQuit    = "ctrl+c"
)

const helpText = "ctrl+d compare • ctrl+r run • ctrl+o open • ctrl+l clear • tab focus • ctrl+c quit"
