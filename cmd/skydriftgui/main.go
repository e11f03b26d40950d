// Command skydriftgui wraps the station's web view in a desktop window.
// The skydrift server must be running on the configured address.
package main

import (
	"flag"
	"runtime"

	webview "github.com/webview/webview_go"
)

func main() {
	addr := flag.String("addr", "http://localhost:1977", "Skydrift server address")
	flag.Parse()

	// Webview requires main thread
	runtime.LockOSThread()

	w := webview.New(false)
	defer w.Destroy()

	// Block the context menu; the station UI has no use for it.
	w.Init(`
		window.addEventListener('contextmenu', function(e) {
			e.preventDefault();
		}, true);
	`)

	w.SetTitle("Skydrift")
	w.SetSize(1280, 800, webview.HintNone)
	w.Navigate(*addr)
	w.Run()
}
