package async

func Gather0(c ...<-chan struct{}) <-chan struct{} {
	return Job(func() {
		for _, f := range c {
			<-f
		}
	})
}

func GatherN[R any](cs ...<-chan R) <-chan []R {
	return Promise(func() []R {
		results := make([]R, len(cs))
		for i, f := range cs {
			results[i] = <-f
		}
		return results
	})
}

func Gather2[R1 any, R2 any](c1 <-chan R1, c2 <-chan R2) <-chan struct {
	R1 R1
	R2 R2
} {
	return Promise(func() struct {
		R1 R1
		R2 R2
	} {
		return struct {
			R1 R1
			R2 R2
		}{<-c1, <-c2}
	})
}
