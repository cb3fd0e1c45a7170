package mongo

import (
	"time"

	"booking-analytics-service/internal/analytics/core/ports"
	bookings "booking-analytics-service/internal/bookings/core/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	createdAtField = "createdAtDate"
	dayFormat      = "%Y-%m-%d"
	stampFormat    = "%Y-%m-%dT%H:%M:%S.%LZ"
)

// createdAtExpr yields the creation instant of a booking. Native dates pass through;
// strings are parsed, with an "T24:" hour rewritten to "T00:" of the next day.
// Anything unparseable becomes null.
func createdAtExpr() bson.D {
	parse := func(s any) bson.D {
		return bson.D{{"$dateFromString", bson.D{
			{"dateString", s},
			{"onError", nil},
			{"onNull", nil},
		}}}
	}

	rewritten := bson.D{{"$concat", bson.A{
		bson.D{{"$substrCP", bson.A{"$$s", 0, 11}}},
		"00:",
		bson.D{{"$substrCP", bson.A{"$$s", 14, bson.D{{"$subtract", bson.A{bson.D{{"$strLenCP", "$$s"}}, 14}}}}}},
	}}}

	fromString := bson.D{{"$let", bson.D{
		{"vars", bson.D{{"s", "$createdAt"}}},
		{"in", bson.D{{"$cond", bson.A{
			bson.D{{"$regexMatch", bson.D{{"input", "$$s"}, {"regex", "T24:"}}}},
			bson.D{{"$dateAdd", bson.D{
				{"startDate", parse(rewritten)},
				{"unit", "day"},
				{"amount", 1},
			}}},
			parse("$$s"),
		}}}},
	}}}

	return bson.D{{"$switch", bson.D{
		{"branches", bson.A{
			bson.D{
				{"case", bson.D{{"$eq", bson.A{bson.D{{"$type", "$createdAt"}}, "date"}}}},
				{"then", "$createdAt"},
			},
			bson.D{
				{"case", bson.D{{"$eq", bson.A{bson.D{{"$type", "$createdAt"}}, "string"}}}},
				{"then", fromString},
			},
		}},
		{"default", nil},
	}}}
}

func normalizeStage() bson.D {
	return bson.D{{"$addFields", bson.D{{createdAtField, createdAtExpr()}}}}
}

func sinceStage(since time.Time) bson.D {
	return bson.D{{"$match", bson.D{{createdAtField, bson.D{{"$gte", since}}}}}}
}

func hasLocation() bson.E {
	return bson.E{Key: "location", Value: bson.D{{"$type", "string"}, {"$ne", ""}}}
}

func countStage() bson.D {
	return bson.D{{"$count", "n"}}
}

func dayOf(field string) bson.D {
	return bson.D{{"$dateToString", bson.D{{"format", dayFormat}, {"date", "$" + field}}}}
}

func yearMonthKey() bson.D {
	return bson.D{
		{"year", bson.D{{"$year", "$" + createdAtField}}},
		{"month", bson.D{{"$month", "$" + createdAtField}}},
	}
}

func countIf(cond any) bson.D {
	return bson.D{{"$sum", bson.D{{"$cond", bson.A{cond, 1, 0}}}}}
}

func isSingle() bson.D {
	return bson.D{{"$eq", bson.A{"$groupSize", bookings.GroupSizeSingle}}}
}

// ------------------------------------------------------------
// pipelines
// ------------------------------------------------------------

func recentPipeline(limit int) mongo.Pipeline {
	return mongo.Pipeline{
		normalizeStage(),
		{{"$match", bson.D{{createdAtField, bson.D{{"$ne", nil}}}}}},
		{{"$sort", bson.D{{createdAtField, -1}, {"_id", -1}}}},
		{{"$limit", limit}},
		{{"$addFields", bson.D{{"createdAt", bson.D{{"$dateToString", bson.D{
			{"format", stampFormat},
			{"date", "$" + createdAtField},
		}}}}}}},
		{{"$project", bson.D{{createdAtField, 0}}}},
	}
}

func createdBetweenPipeline(from, to time.Time) mongo.Pipeline {
	return mongo.Pipeline{
		normalizeStage(),
		{{"$match", bson.D{{createdAtField, bson.D{{"$gte", from}, {"$lt", to}}}}}},
		countStage(),
	}
}

func appointmentCountPipeline(f ports.AppointmentCountFilter) mongo.Pipeline {
	return mongo.Pipeline{
		{{"$match", bson.D{{"location", f.City}, {"appointmentDate", f.AppointmentDate}}}},
		normalizeStage(),
		{{"$match", bson.D{{createdAtField, bson.D{{"$gte", f.CreatedFrom}, {"$lt", f.CreatedTo}}}}}},
		countStage(),
	}
}

func cityCountsPipeline() mongo.Pipeline {
	return mongo.Pipeline{
		{{"$match", bson.D{hasLocation()}}},
		{{"$group", bson.D{{"_id", "$location"}, {"bookings", bson.D{{"$sum", 1}}}}}},
		{{"$sort", bson.D{{"bookings", -1}, {"_id", 1}}}},
		{{"$project", bson.D{{"_id", 0}, {"city", "$_id"}, {"bookings", 1}}}},
	}
}

func groupSizePipeline() mongo.Pipeline {
	return mongo.Pipeline{
		{{"$group", bson.D{
			{"_id", nil},
			{"total", bson.D{{"$sum", 1}}},
			{"single", countIf(isSingle())},
			{"group", countIf(bson.D{{"$eq", bson.A{"$groupSize", bookings.GroupSizeGroup}}})},
		}}},
	}
}

func dailyStatsPipeline(since time.Time) mongo.Pipeline {
	return mongo.Pipeline{
		normalizeStage(),
		sinceStage(since),
		{{"$group", bson.D{
			{"_id", dayOf(createdAtField)},
			{"appointments", bson.D{{"$sum", 1}}},
			{"users", bson.D{{"$addToSet", "$email"}}},
			{"cities", bson.D{{"$addToSet", "$location"}}},
			{"visaClasses", bson.D{{"$addToSet", "$visaClass"}}},
			{"single", countIf(isSingle())},
		}}},
		{{"$project", bson.D{
			{"_id", 0},
			{"date", "$_id"},
			{"appointments", 1},
			{"users", bson.D{{"$size", "$users"}}},
			{"cities", bson.D{{"$size", "$cities"}}},
			{"popularVisaClasses", bson.D{{"$slice", bson.A{
				bson.D{{"$sortArray", bson.D{
					{"input", bson.D{{"$setDifference", bson.A{"$visaClasses", bson.A{nil, ""}}}}},
					{"sortBy", 1},
				}}},
				3,
			}}}},
			{"groupSizes", bson.D{
				{"single", "$single"},
				{"group", bson.D{{"$subtract", bson.A{"$appointments", "$single"}}}},
			}},
		}}},
		{{"$sort", bson.D{{"date", 1}}}},
	}
}

func dailyCountsPipeline(since time.Time) mongo.Pipeline {
	return mongo.Pipeline{
		normalizeStage(),
		sinceStage(since),
		{{"$group", bson.D{{"_id", dayOf(createdAtField)}, {"bookings", bson.D{{"$sum", 1}}}}}},
		{{"$sort", bson.D{{"_id", 1}}}},
		{{"$project", bson.D{{"_id", 0}, {"date", "$_id"}, {"bookings", 1}}}},
	}
}

func monthlyCountsPipeline(since time.Time) mongo.Pipeline {
	return mongo.Pipeline{
		normalizeStage(),
		sinceStage(since),
		{{"$group", bson.D{
			{"_id", yearMonthKey()},
			{"bookings", bson.D{{"$sum", 1}}},
			{"users", bson.D{{"$addToSet", "$email"}}},
		}}},
		{{"$sort", bson.D{{"_id.year", 1}, {"_id.month", 1}}}},
		{{"$project", bson.D{
			{"_id", 0},
			{"year", "$_id.year"},
			{"month", "$_id.month"},
			{"bookings", 1},
			{"users", bson.D{{"$size", "$users"}}},
		}}},
	}
}

func topCitiesPipeline(since time.Time, limit int) mongo.Pipeline {
	return mongo.Pipeline{
		{{"$match", bson.D{hasLocation()}}},
		normalizeStage(),
		sinceStage(since),
		{{"$group", bson.D{
			{"_id", bson.D{
				{"city", "$location"},
				{"year", bson.D{{"$year", "$" + createdAtField}}},
				{"month", bson.D{{"$month", "$" + createdAtField}}},
			}},
			{"bookings", bson.D{{"$sum", 1}}},
		}}},
		{{"$group", bson.D{
			{"_id", "$_id.city"},
			{"totalBookings", bson.D{{"$sum", "$bookings"}}},
			{"months", bson.D{{"$push", bson.D{
				{"year", "$_id.year"},
				{"month", "$_id.month"},
				{"bookings", "$bookings"},
			}}}},
		}}},
		{{"$sort", bson.D{{"totalBookings", -1}, {"_id", 1}}}},
		{{"$limit", limit}},
		{{"$project", bson.D{{"_id", 0}, {"city", "$_id"}, {"totalBookings", 1}, {"months", 1}}}},
	}
}

func cityMonthlyPipeline(city string, since time.Time) mongo.Pipeline {
	return mongo.Pipeline{
		{{"$match", bson.D{{"location", city}}}},
		normalizeStage(),
		sinceStage(since),
		{{"$group", bson.D{{"_id", yearMonthKey()}, {"bookings", bson.D{{"$sum", 1}}}}}},
		{{"$sort", bson.D{{"_id.year", 1}, {"_id.month", 1}}}},
		{{"$project", bson.D{{"_id", 0}, {"year", "$_id.year"}, {"month", "$_id.month"}, {"bookings", 1}}}},
	}
}

func cityActivityPipeline(w ports.ActivityWindow) mongo.Pipeline {
	created := "$" + createdAtField
	return mongo.Pipeline{
		{{"$match", bson.D{hasLocation()}}},
		normalizeStage(),
		{{"$match", bson.D{{createdAtField, bson.D{{"$ne", nil}}}}}},
		{{"$group", bson.D{
			{"_id", "$location"},
			{"totalBookings", bson.D{{"$sum", 1}}},
			{"recentBookings", countIf(bson.D{{"$gte", bson.A{created, w.RecentSince}}})},
			{"previousPeriodBookings", countIf(bson.D{{"$and", bson.A{
				bson.D{{"$gte", bson.A{created, w.PreviousSince}}},
				bson.D{{"$lt", bson.A{created, w.RecentSince}}},
			}}})},
			{"users", bson.D{{"$addToSet", "$email"}}},
		}}},
		{{"$sort", bson.D{{"totalBookings", -1}, {"_id", 1}}}},
		{{"$project", bson.D{
			{"_id", 0},
			{"city", "$_id"},
			{"totalBookings", 1},
			{"recentBookings", 1},
			{"previousPeriodBookings", 1},
			{"users", bson.D{{"$size", "$users"}}},
		}}},
	}
}

// appointmentAtExpr combines appointmentDate (DD/MM/YYYY) and appointmentTime (HH:MM)
// by adding hour*60+minute minutes to the day, so "24:MM" lands on the next day.
func appointmentAtExpr() bson.D {
	toInt := func(v any) bson.D {
		return bson.D{{"$convert", bson.D{{"input", v}, {"to", "int"}, {"onError", nil}, {"onNull", nil}}}}
	}
	part := func(i int) bson.D {
		return toInt(bson.D{{"$arrayElemAt", bson.A{"$$parts", i}}})
	}

	return bson.D{{"$let", bson.D{
		{"vars", bson.D{{"parts", bson.D{{"$split", bson.A{"$appointmentTime", ":"}}}}}},
		{"in", bson.D{{"$dateAdd", bson.D{
			{"startDate", bson.D{{"$dateFromString", bson.D{
				{"dateString", "$appointmentDate"},
				{"format", "%d/%m/%Y"},
				{"onError", nil},
				{"onNull", nil},
			}}}},
			{"unit", "minute"},
			{"amount", bson.D{{"$add", bson.A{
				bson.D{{"$multiply", bson.A{part(0), 60}}},
				part(1),
			}}}},
		}}}},
	}}}
}

func upcomingPipeline(f ports.UpcomingFilter) mongo.Pipeline {
	return mongo.Pipeline{
		{{"$match", bson.D{
			hasLocation(),
			{"appointmentDate", bson.D{{"$type", "string"}, {"$ne", ""}}},
			{"appointmentTime", bson.D{{"$type", "string"}, {"$ne", ""}}},
		}}},
		normalizeStage(),
		sinceStage(f.CreatedSince),
		{{"$addFields", bson.D{{"appointmentDateTime", appointmentAtExpr()}}}},
		{{"$match", bson.D{{"appointmentDateTime", bson.D{{"$ne", nil}}}}}},
		{{"$sort", bson.D{{"appointmentDateTime", 1}, {"_id", 1}}}},
		{{"$group", bson.D{
			{"_id", "$location"},
			{"appointments", bson.D{{"$push", bson.D{
				{"appointmentDate", "$appointmentDate"},
				{"appointmentTime", "$appointmentTime"},
				{"appointmentDateTime", "$appointmentDateTime"},
				{"visaClass", "$visaClass"},
				{"groupSize", "$groupSize"},
				{"createdAt", bson.D{{"$dateToString", bson.D{{"format", stampFormat}, {"date", "$" + createdAtField}}}}},
			}}}},
			{"totalUpcoming", bson.D{{"$sum", 1}}},
		}}},
		{{"$sort", bson.D{{"totalUpcoming", -1}, {"_id", 1}}}},
		{{"$project", bson.D{
			{"_id", 0},
			{"city", "$_id"},
			{"appointments", bson.D{{"$slice", bson.A{"$appointments", f.PerCityLimit}}}},
			{"totalUpcoming", 1},
		}}},
	}
}
