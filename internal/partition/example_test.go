package partition

import "fmt"

// ExamplePartition splits six units between four workers.
func ExamplePartition() {
	ranges, err := Partition(6, 4)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Println(ranges)
	// Output: [[0,2) [2,4) [4,5) [5,6)]
}
