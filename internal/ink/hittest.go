package ink

import "math"

// HitTest 判断半径为 radius 的圆形橡皮是否碰到笔画
func HitTest(s *Stroke, p Point, radius float64) bool {
	reach := radius + s.Attributes.Size()/2
	switch len(s.Points) {
	case 0:
		return false
	case 1:
		return s.Points[0].Dist(p) <= reach
	}

	for i := 1; i < len(s.Points); i++ {
		if segmentDist(p, s.Points[i-1], s.Points[i]) <= reach {
			return true
		}
	}
	return false
}

// ErasePoints 擦掉笔画中被橡皮覆盖的部分，返回剩余的连续片段。
// 每条线段与半径 radius+线宽/2 的圆求交，圆内部分被裁掉。
// hit 为 false 时笔画未被触及，pieces 为空
func ErasePoints(s *Stroke, p Point, radius float64) (pieces []*Stroke, hit bool) {
	reach := radius + s.Attributes.Size()/2
	pts := s.Points
	switch len(pts) {
	case 0:
		return nil, false
	case 1:
		if pts[0].Dist(p) <= reach {
			return nil, true
		}
		return nil, false
	}

	var run []Point
	flush := func() {
		if len(run) > 1 {
			pieces = append(pieces, NewStroke(run, s.Attributes))
		}
		run = nil
	}

	if pts[0].Dist(p) > reach {
		run = append(run, pts[0])
	}
	for i := 1; i < len(pts); i++ {
		a, b := pts[i-1], pts[i]
		t0, t1, ok := clipCircle(a, b, p, reach)
		if !ok {
			if len(run) == 0 {
				run = append(run, a)
			}
			run = append(run, b)
			continue
		}

		hit = true
		if t0 > 0 {
			run = append(run, lerp(a, b, t0))
		}
		flush()
		if t1 < 1 {
			run = append(run, lerp(a, b, t1), b)
		}
	}
	if !hit {
		return nil, false
	}
	flush()
	return pieces, true
}

// clipCircle 线段 ab 落在圆 (c, r) 内的参数区间 [t0, t1]，相切不算
func clipCircle(a, b, c Point, r float64) (t0, t1 float64, ok bool) {
	dx, dy := b.X-a.X, b.Y-a.Y
	fx, fy := a.X-c.X, a.Y-c.Y

	qa := dx*dx + dy*dy
	if qa == 0 {
		return 0, 1, a.Dist(c) <= r
	}
	qb := 2 * (fx*dx + fy*dy)
	qc := fx*fx + fy*fy - r*r

	disc := qb*qb - 4*qa*qc
	if disc <= 0 {
		return 0, 0, false
	}
	sq := math.Sqrt(disc)
	t0 = (-qb - sq) / (2 * qa)
	t1 = (-qb + sq) / (2 * qa)
	if t1 < 0 || t0 > 1 {
		return 0, 0, false
	}
	return math.Max(0, t0), math.Min(1, t1), true
}

func lerp(a, b Point, t float64) Point {
	return Pt(a.X+t*(b.X-a.X), a.Y+t*(b.Y-a.Y))
}

// segmentDist 点 p 到线段 ab 的距离
func segmentDist(p, a, b Point) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	l2 := dx*dx + dy*dy
	if l2 == 0 {
		return p.Dist(a)
	}
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / l2
	t = math.Max(0, math.Min(1, t))
	return p.Dist(Pt(a.X+t*dx, a.Y+t*dy))
}
