package store

import (
	"context"
	"database/sql"
	"fmt"

	"poselabel/internal/pose"
)

// SaveLabels persists a label collection. Every video referenced by the
// collection is replaced wholesale: its previous frames (and their
// instances and points) are removed before the new ones are written, so a
// re-import always reflects the latest annotation file.
func (s *Store) SaveLabels(ctx context.Context, labels pose.Labels) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	videoIDs := make(map[string]int64)
	for _, frame := range labels.Frames {
		if _, ok := videoIDs[frame.Video.Filename]; ok {
			continue
		}
		id, err := upsertVideo(ctx, tx, frame.Video)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM frames WHERE video_id = ?", id); err != nil {
			return fmt.Errorf("clear frames for %q: %w", frame.Video.Filename, err)
		}
		videoIDs[frame.Video.Filename] = id
	}

	for ordinal, frame := range labels.Frames {
		videoID := videoIDs[frame.Video.Filename]
		res, err := tx.ExecContext(ctx,
			"INSERT INTO frames (video_id, frame_idx, ordinal) VALUES (?, ?, ?)",
			videoID, frame.FrameIdx, ordinal,
		)
		if err != nil {
			return fmt.Errorf("insert frame %d of %q: %w", frame.FrameIdx, frame.Video.Filename, err)
		}
		frameID, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("frame insert id: %w", err)
		}
		if err := insertInstances(ctx, tx, frameID, frame.Instances); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	return nil
}

func upsertVideo(ctx context.Context, tx *sql.Tx, video pose.Video) (int64, error) {
	var frames, height, width, channels any
	if s := video.Shape; s != nil {
		frames, height, width, channels = s.Frames, s.Height, s.Width, s.Channels
	}
	_, err := tx.ExecContext(ctx,
		`INSERT INTO videos (filename, frames, height, width, channels)
         VALUES (?, ?, ?, ?, ?)
         ON CONFLICT(filename) DO UPDATE SET
             frames = excluded.frames,
             height = excluded.height,
             width = excluded.width,
             channels = excluded.channels`,
		video.Filename, frames, height, width, channels,
	)
	if err != nil {
		return 0, fmt.Errorf("upsert video %q: %w", video.Filename, err)
	}
	var id int64
	if err := tx.QueryRowContext(ctx, "SELECT id FROM videos WHERE filename = ?", video.Filename).Scan(&id); err != nil {
		return 0, fmt.Errorf("lookup video %q: %w", video.Filename, err)
	}
	return id, nil
}

func insertInstances(ctx context.Context, tx *sql.Tx, frameID int64, instances []pose.Instance) error {
	for ordinal, instance := range instances {
		res, err := tx.ExecContext(ctx,
			"INSERT INTO instances (frame_id, ordinal) VALUES (?, ?)",
			frameID, ordinal,
		)
		if err != nil {
			return fmt.Errorf("insert instance: %w", err)
		}
		instanceID, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("instance insert id: %w", err)
		}
		for pointOrdinal, ip := range instance.Points {
			var visible any
			if ip.Point.Visible != nil {
				visible = *ip.Point.Visible
			}
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO points (instance_id, ordinal, node, x, y, visible) VALUES (?, ?, ?, ?, ?, ?)",
				instanceID, pointOrdinal, ip.Node, ip.Point.X, ip.Point.Y, visible,
			); err != nil {
				return fmt.Errorf("insert point %q: %w", ip.Node, err)
			}
		}
	}
	return nil
}

// LoadLabels reads the full stored collection back, attaching the provided
// skeleton to every instance. Frames come back grouped by video in import
// order.
func (s *Store) LoadLabels(ctx context.Context, skeleton pose.Skeleton) (pose.Labels, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT f.id, f.frame_idx, v.filename, v.frames, v.height, v.width, v.channels
         FROM frames f
         JOIN videos v ON v.id = f.video_id
         ORDER BY f.video_id, f.ordinal`)
	if err != nil {
		return pose.Labels{}, fmt.Errorf("query frames: %w", err)
	}
	defer rows.Close()

	type frameRow struct {
		id    int64
		frame pose.LabeledFrame
	}
	var frames []frameRow
	for rows.Next() {
		var fr frameRow
		var filename string
		var vFrames, vHeight, vWidth, vChannels sql.NullInt64
		if err := rows.Scan(&fr.id, &fr.frame.FrameIdx, &filename, &vFrames, &vHeight, &vWidth, &vChannels); err != nil {
			return pose.Labels{}, fmt.Errorf("scan frame: %w", err)
		}
		fr.frame.Video = pose.Video{Filename: filename}
		if vHeight.Valid && vWidth.Valid {
			fr.frame.Video.Shape = &pose.Shape{
				Frames:   int(vFrames.Int64),
				Height:   int(vHeight.Int64),
				Width:    int(vWidth.Int64),
				Channels: int(vChannels.Int64),
			}
		}
		frames = append(frames, fr)
	}
	if err := rows.Err(); err != nil {
		return pose.Labels{}, fmt.Errorf("iterate frames: %w", err)
	}

	labels := pose.Labels{Frames: make([]pose.LabeledFrame, 0, len(frames))}
	for _, fr := range frames {
		instances, err := s.loadInstances(ctx, fr.id, skeleton)
		if err != nil {
			return pose.Labels{}, err
		}
		fr.frame.Instances = instances
		labels.Frames = append(labels.Frames, fr.frame)
	}
	return labels, nil
}

func (s *Store) loadInstances(ctx context.Context, frameID int64, skeleton pose.Skeleton) ([]pose.Instance, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id FROM instances WHERE frame_id = ? ORDER BY ordinal", frameID)
	if err != nil {
		return nil, fmt.Errorf("query instances: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan instance: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate instances: %w", err)
	}

	instances := make([]pose.Instance, 0, len(ids))
	for _, id := range ids {
		points, err := s.loadPoints(ctx, id)
		if err != nil {
			return nil, err
		}
		instances = append(instances, pose.NewInstance(skeleton, points))
	}
	return instances, nil
}

func (s *Store) loadPoints(ctx context.Context, instanceID int64) ([]pose.InstancePoint, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT node, x, y, visible FROM points WHERE instance_id = ? ORDER BY ordinal", instanceID)
	if err != nil {
		return nil, fmt.Errorf("query points: %w", err)
	}
	defer rows.Close()

	var points []pose.InstancePoint
	for rows.Next() {
		var ip pose.InstancePoint
		var visible sql.NullBool
		if err := rows.Scan(&ip.Node, &ip.Point.X, &ip.Point.Y, &visible); err != nil {
			return nil, fmt.Errorf("scan point: %w", err)
		}
		if visible.Valid {
			v := visible.Bool
			ip.Point.Visible = &v
		}
		points = append(points, ip)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate points: %w", err)
	}
	return points, nil
}

// VideoSummary aggregates stored annotation counts for one video.
type VideoSummary struct {
	Filename  string
	Frames    int
	Instances int
	Points    int
}

// Summary returns per-video annotation counts in video insertion order.
func (s *Store) Summary(ctx context.Context) ([]VideoSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT v.filename,
                COUNT(DISTINCT f.id),
                COUNT(DISTINCT i.id),
                COUNT(p.id)
         FROM videos v
         LEFT JOIN frames f ON f.video_id = v.id
         LEFT JOIN instances i ON i.frame_id = f.id
         LEFT JOIN points p ON p.instance_id = i.id
         GROUP BY v.id
         ORDER BY v.id`)
	if err != nil {
		return nil, fmt.Errorf("query summary: %w", err)
	}
	defer rows.Close()

	var summaries []VideoSummary
	for rows.Next() {
		var summary VideoSummary
		if err := rows.Scan(&summary.Filename, &summary.Frames, &summary.Instances, &summary.Points); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate summary: %w", err)
	}
	return summaries, nil
}
