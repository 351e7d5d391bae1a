// Package ui contains the Bubble Tea program that is the application's
// event/render loop.
//
// Message flow:
//   - Terminal messages (keys, window size, resume) are translated into
//     actions and queued on the action bus. Keys first go through the
//     keymap of the current mode; unmatched keys reach the active list or
//     the error view, which may queue an action of their own.
//   - A waiting command wakes the loop whenever the bus has pending
//     actions. The loop drains what is queued at that moment and applies
//     each action in arrival order: loop-level actions (Quit, Suspend,
//     Resize, Render, Error, ToggleView, mode changes) are handled here,
//     completions are routed to the list they name, and everything else
//     goes to the active list.
//   - Background operations started by a list post their completions on
//     the same bus, so no state reaches the loop except through actions.
//
// Rendering:
//   - View returns a cached frame. Only Render and Resize rebuild it, so
//     handlers that change what is on screen queue a trailing Render.
//   - A backend.Watcher supplies Tick and Render beats and reports
//     repository changes, which refresh both lists.
package ui
