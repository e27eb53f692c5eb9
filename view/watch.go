package view

import (
	"context"
	"fmt"
	"log"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the templates whenever a file in dir changes, until ctx is
// done. dir should be the operating system path of the template folder.
func (v *View) Watch(ctx context.Context, dir string) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("Watch: %w", err)
	}
	err = w.Add(dir)
	if err != nil {
		w.Close()
		return fmt.Errorf("Watch: %w", err)
	}
	go func() {
		defer w.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
					continue
				}
				err := v.Reload()
				if err != nil {
					log.Printf("Watch: %s", err)
				} else {
					log.Printf("Reloaded templates after change to %q", ev.Name)
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Printf("Watch: %s", err)
			}
		}
	}()
	return nil
}
