package host_test

import (
	"context"
	"errors"
	"testing"

	"extrafiles/internal/host"
	"extrafiles/internal/relocate"
	"extrafiles/internal/services"
)

func TestParseEvent(t *testing.T) {
	for _, name := range []string{"cli_exit", " Album_Imported "} {
		if _, err := host.ParseEvent(name); err != nil {
			t.Fatalf("ParseEvent(%q) returned error: %v", name, err)
		}
	}
	if _, err := host.ParseEvent("import_task_files"); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestFireRunsOnlyRegisteredListeners(t *testing.T) {
	d := host.NewDispatcher(nil)
	var order []string
	d.Register(host.EventCLIExit, func(_ context.Context, albums []relocate.Album) {
		order = append(order, "first")
		if len(albums) != 2 {
			t.Errorf("expected payload of 2 albums, got %d", len(albums))
		}
	})
	d.Register(host.EventCLIExit, func(ctx context.Context, _ []relocate.Album) {
		order = append(order, "second")
		if event, ok := services.EventFromContext(ctx); !ok || event != "cli_exit" {
			t.Errorf("expected event in context, got %q", event)
		}
	})
	d.Register(host.EventAlbumImported, func(context.Context, []relocate.Album) {
		order = append(order, "imported")
	})
	d.Register(host.EventCLIExit, nil)

	albums := []relocate.Album{{ID: 1}, {ID: 2}}
	if ran := d.Fire(context.Background(), host.EventCLIExit, albums); ran != 2 {
		t.Fatalf("expected 2 handlers to run, got %d", ran)
	}
	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Fatalf("unexpected handler order %v", order)
	}
	if d.Listeners(host.EventAlbumImported) != 1 {
		t.Fatalf("expected one album_imported listener")
	}
}

func TestFireWithoutListeners(t *testing.T) {
	d := host.NewDispatcher(nil)
	if ran := d.Fire(context.Background(), host.EventAlbumImported, nil); ran != 0 {
		t.Fatalf("expected no handlers to run, got %d", ran)
	}
}

func TestFireCompletesAfterCancellation(t *testing.T) {
	d := host.NewDispatcher(nil)
	ctx, cancel := context.WithCancel(context.Background())
	var sawCancelled bool
	d.Register(host.EventCLIExit, func(ctx context.Context, _ []relocate.Album) {
		cancel()
		sawCancelled = ctx.Err() != nil
	})
	d.Fire(ctx, host.EventCLIExit, nil)
	if sawCancelled {
		t.Fatal("handler context must not be cancelled mid-run")
	}
}
