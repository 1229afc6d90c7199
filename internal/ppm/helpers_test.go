package ppm

import "github.com/agbru/parbench/internal/partition"

func partitionAll(n int) partition.WorkRange {
	return partition.WorkRange{Start: 0, Count: n}
}
