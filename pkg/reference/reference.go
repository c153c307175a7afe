// Package reference measures the mature protobuf implementation on a
// synthetic descriptor payload. Its timings provide the independent
// reference ratio the comparator judges this codec's bindings against.
package reference

import (
	"fmt"
	"sort"
	"time"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/descriptorpb"
)

// trimCount samples are dropped from each end of the sorted sample set
// before averaging, discarding warmup noise and scheduler outliers.
const trimCount = 10

// Stats summarizes one micro-benchmark.
type Stats struct {
	AvgNs   int64
	MinNs   int64
	MaxNs   int64
	Samples int
}

// Ratio divides this measurement by a baseline time, yielding the
// reference system's cross-implementation slowdown.
func (s *Stats) Ratio(baselineNs int64) float64 {
	return float64(s.AvgNs) / float64(baselineNs)
}

// Payload serializes the synthetic FileDescriptorProto used for parsing
// benchmarks. Sized to roughly 7.5KB so results stay comparable with the
// descriptor-parsing benchmarks of the protobuf C++ suite.
func Payload() ([]byte, error) {
	data, err := proto.Marshal(buildFileDescriptor())
	if err != nil {
		return nil, fmt.Errorf("reference: marshal descriptor payload: %w", err)
	}
	return data, nil
}

// BenchmarkParse measures proto.Unmarshal of the descriptor payload over
// the given iteration count using the trimmed-mean policy.
func BenchmarkParse(iterations int) (*Stats, error) {
	if iterations <= 2*trimCount {
		return nil, fmt.Errorf("reference: need more than %d iterations, got %d", 2*trimCount, iterations)
	}
	payload, err := Payload()
	if err != nil {
		return nil, err
	}

	samples := make([]int64, iterations)
	for i := 0; i < iterations; i++ {
		msg := &descriptorpb.FileDescriptorProto{}
		start := time.Now()
		err := proto.Unmarshal(payload, msg)
		samples[i] = time.Since(start).Nanoseconds()
		if err != nil {
			return nil, fmt.Errorf("reference: unmarshal iteration %d: %w", i, err)
		}
	}
	return trim(samples), nil
}

// BenchmarkSerialize measures proto.Marshal of the decoded descriptor.
func BenchmarkSerialize(iterations int) (*Stats, error) {
	if iterations <= 2*trimCount {
		return nil, fmt.Errorf("reference: need more than %d iterations, got %d", 2*trimCount, iterations)
	}
	msg := buildFileDescriptor()

	samples := make([]int64, iterations)
	for i := 0; i < iterations; i++ {
		start := time.Now()
		_, err := proto.Marshal(msg)
		samples[i] = time.Since(start).Nanoseconds()
		if err != nil {
			return nil, fmt.Errorf("reference: marshal iteration %d: %w", i, err)
		}
	}
	return trim(samples), nil
}

// trim sorts, drops trimCount samples from each end, and summarizes.
func trim(samples []int64) *Stats {
	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })
	kept := samples[trimCount : len(samples)-trimCount]

	var sum int64
	for _, s := range kept {
		sum += s
	}
	return &Stats{
		AvgNs:   sum / int64(len(kept)),
		MinNs:   kept[0],
		MaxNs:   kept[len(kept)-1],
		Samples: len(kept),
	}
}

// buildFileDescriptor constructs the benchmark descriptor: 10 messages of
// 12 mixed-type fields, a nested type on every third message, and 5 enums
// of 8 values.
func buildFileDescriptor() *descriptorpb.FileDescriptorProto {
	fd := &descriptorpb.FileDescriptorProto{
		Name:    proto.String("benchmark_test.proto"),
		Package: proto.String("benchmark.test"),
		Syntax:  proto.String("proto2"),
		Options: &descriptorpb.FileOptions{
			JavaPackage: proto.String("com.benchmark.test"),
			OptimizeFor: descriptorpb.FileOptions_SPEED.Enum(),
		},
	}

	for i := 0; i < 10; i++ {
		msg := &descriptorpb.DescriptorProto{
			Name: proto.String(fmt.Sprintf("TestMessage%d", i)),
		}
		for j := 0; j < 12; j++ {
			field := &descriptorpb.FieldDescriptorProto{
				Name:   proto.String(fmt.Sprintf("field_%d", j)),
				Number: proto.Int32(int32(j + 1)),
				Label:  descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum(),
			}
			switch j % 4 {
			case 0:
				field.Type = descriptorpb.FieldDescriptorProto_TYPE_STRING.Enum()
				field.DefaultValue = proto.String(fmt.Sprintf("default_%d", j))
			case 1:
				field.Type = descriptorpb.FieldDescriptorProto_TYPE_INT32.Enum()
				field.DefaultValue = proto.String(fmt.Sprintf("%d", j*10))
			case 2:
				field.Type = descriptorpb.FieldDescriptorProto_TYPE_BOOL.Enum()
				field.DefaultValue = proto.String("false")
			default:
				field.Type = descriptorpb.FieldDescriptorProto_TYPE_MESSAGE.Enum()
				field.TypeName = proto.String(fmt.Sprintf(".benchmark.test.TestMessage%d", (i+1)%10))
			}
			msg.Field = append(msg.Field, field)
		}
		if i%3 == 0 {
			nested := &descriptorpb.DescriptorProto{Name: proto.String("NestedType")}
			for k := 0; k < 4; k++ {
				nested.Field = append(nested.Field, &descriptorpb.FieldDescriptorProto{
					Name:   proto.String(fmt.Sprintf("nested_%d", k)),
					Number: proto.Int32(int32(k + 1)),
					Label:  descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum(),
					Type:   descriptorpb.FieldDescriptorProto_TYPE_INT32.Enum(),
				})
			}
			msg.NestedType = append(msg.NestedType, nested)
		}
		fd.MessageType = append(fd.MessageType, msg)
	}

	for i := 0; i < 5; i++ {
		enum := &descriptorpb.EnumDescriptorProto{
			Name: proto.String(fmt.Sprintf("TestEnum%d", i)),
		}
		for j := 0; j < 8; j++ {
			enum.Value = append(enum.Value, &descriptorpb.EnumValueDescriptorProto{
				Name:   proto.String(fmt.Sprintf("ENUM_%d_VALUE_%d", i, j)),
				Number: proto.Int32(int32(j)),
			})
		}
		fd.EnumType = append(fd.EnumType, enum)
	}

	return fd
}
