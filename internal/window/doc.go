// Package window hosts the capture overlay in a native window.
//
// A [Window] owns the platform event loop. It translates pointer and
// keyboard events into overlay events, feeds them to the session on the
// loop's goroutine, and repaints the frame on a fixed tick. A separate
// goroutine only sends tick events into the loop; it never touches session
// state.
//
// Window also implements the session's text prompt. PromptText runs a nested
// event pump on the same goroutine, so keyboard input goes to the prompt box
// while the session's input grab is suspended, and the overlay keeps
// repainting underneath it.
package window
