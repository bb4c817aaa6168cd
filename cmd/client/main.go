package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"social-publisher/internal/domain/dto"
	consts "social-publisher/pkg/constants"
	"social-publisher/pkg/helper"
)

// multiFlag collects a repeatable string flag.
type multiFlag []string

func (m *multiFlag) String() string { return strings.Join(*m, ",") }

func (m *multiFlag) Set(v string) error {
	*m = append(*m, v)
	return nil
}

func main() {
	server := flag.String("server", "http://localhost:3000/api/v1", "Server base URL")
	owner := flag.String("owner", "", "Owner id sent as X-Owner-ID")
	caption := flag.String("caption", "", "Post caption")
	crop := flag.String("crop", "none", "Crop preset: none, square, landscape, portrait")
	batchKey := flag.String("batch", "", "Batch key (default: server generated)")
	async := flag.Bool("async", false, "Queue the batch and poll the job status")
	var destinations, files, fileIDs, urls multiFlag
	flag.Var(&destinations, "dest", "Destination such as meta_ig:<integration id>; repeatable")
	flag.Var(&files, "file", "Local image sent inline; repeatable, order is kept")
	flag.Var(&fileIDs, "file-id", "Media store file id; repeatable")
	flag.Var(&urls, "url", "Already public image URL; repeatable")
	flag.Parse()

	if *owner == "" || len(destinations) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	req := dto.PublishRequestDTO{BatchKey: *batchKey, Caption: *caption, URLs: urls}
	for _, d := range destinations {
		req.Destinations = append(req.Destinations, dto.DestinationDTO{Destination: d})
	}
	for _, id := range fileIDs {
		req.Media = append(req.Media, dto.MediaItemDTO{FileID: id, Crop: *crop})
	}
	for _, u := range urls {
		if !helper.IsPublicURL(u) {
			log.Fatalf("not a public http(s) url: %s", u)
		}
	}
	for _, path := range files {
		if err := checkImageFile(path); err != nil {
			log.Fatal(err)
		}
		fmt.Printf("Attaching %s (%s)\n", path, helper.GetMimeTypeFromExtension(path))
		data, err := os.ReadFile(path)
		if err != nil {
			log.Fatalf("file could not be read: %v", err)
		}
		req.Media = append(req.Media, dto.MediaItemDTO{Inline: data, Crop: *crop})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	base := strings.TrimRight(*server, "/")
	if !*async {
		var out dto.PublishResponseDTO
		if err := call(ctx, http.MethodPost, base+"/publish", *owner, req, &out); err != nil {
			log.Fatal(err)
		}
		printOutcomes(out.Outcomes)
		fmt.Println(out.Summary)
		return
	}

	var queued dto.EnqueueResponseDTO
	if err := call(ctx, http.MethodPost, base+"/publish/jobs", *owner, req, &queued); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Job %s %s\n", queued.JobID, queued.Status)

	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			fmt.Println("\nStopped waiting; the job keeps running on the server")
			return
		case <-ticker.C:
			var result dto.PublishJobResult
			if err := call(ctx, http.MethodGet, base+"/publish/jobs/"+queued.JobID, *owner, nil, &result); err != nil {
				log.Fatal(err)
			}
			switch result.Status {
			case consts.StatusCompleted:
				printOutcomes(result.Outcomes)
				fmt.Println(result.Summary)
				return
			case consts.StatusFailed:
				log.Fatalf("job failed: %s", result.Error)
			default:
				fmt.Printf("\rJob %s: %s", result.JobID, result.Status)
			}
		}
	}
}

func checkImageFile(path string) error {
	if !helper.IsImageFile(path) {
		return fmt.Errorf("unsupported file extension %q: %s", filepath.Ext(path), path)
	}
	return nil
}

func call(ctx context.Context, method, url, owner string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Owner-ID", owner)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 300 {
		return fmt.Errorf("HTTP %d %s", resp.StatusCode, string(respBody))
	}
	return json.Unmarshal(respBody, out)
}

func printOutcomes(outcomes []dto.PublishOutcome) {
	for _, o := range outcomes {
		if o.Success {
			fmt.Printf("  ok    %-24s %s\n", o.DestinationID, o.PostID)
		} else {
			fmt.Printf("  fail  %-24s %s\n", o.DestinationID, o.Error)
		}
	}
}
