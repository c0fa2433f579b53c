// Package ui contains the Bubble Tea program that presents a kiosk page in the
// terminal. The Model type focuses on message orchestration while dedicated
// helpers own layout, rendering, keyboard navigation and card search.
//
// Message flow:
//   - Bubble Tea invokes Model.Update with incoming messages, which are routed
//     through a typed handler registry so each tea.Msg is handled by a focused
//     function (key presses, mouse presses, resizes, timers, reloads).
//   - Key and mouse input is translated into input events and handed to the
//     dispatcher, which owns every state transition. The UI never mutates the
//     navigator directly except to open the fullscreen overlay and to apply
//     reloads and popup timeouts.
//
// Layout:
//   - computeLayout derives the geometry of one frame (canvas, card boxes,
//     popup panel, back button, overlay). View draws from it and mouse
//     presses are hit-tested against it, so both always agree.
//
// State ownership:
//   - View, visibility and popup state live in internal/navigator.
//   - Keyboard focus and the search filter live in internal/ui/state.List,
//     refreshed whenever the visible card set changes.
//
// Backend interactions:
//   - A backend.Watcher streams reparsed pages; Update waits for those events
//     and swaps the new card set in via Navigator.Reload.
package ui
