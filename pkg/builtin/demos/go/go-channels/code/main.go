package main

import (
	"fmt"
	"sync"
	"time"
)

// worker squares each job it receives and reports the result.
func worker(id int, jobs <-chan int, results chan<- string, wg *sync.WaitGroup) {
	defer wg.Done()
	for job := range jobs {
		time.Sleep(10 * time.Millisecond)
		results <- fmt.Sprintf("worker %d: %d^2 = %d", id, job, job*job)
	}
}

func main() {
	jobs := make(chan int)
	results := make(chan string)

	var wg sync.WaitGroup
	for id := 1; id <= 3; id++ {
		wg.Add(1)
		go worker(id, jobs, results, &wg)
	}

	go func() {
		for job := 1; job <= 9; job++ {
			jobs <- job
		}
		close(jobs)
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	for line := range results {
		fmt.Println(line)
	}

	// select with a timeout is how callers avoid blocking forever.
	done := make(chan struct{})
	go func() {
		time.Sleep(20 * time.Millisecond)
		close(done)
	}()
	select {
	case <-done:
		fmt.Println("background task finished")
	case <-time.After(time.Second):
		fmt.Println("timed out waiting for background task")
	}
}
