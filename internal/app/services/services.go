package services

// Services defined in this package:
// - AuthService: handles login and token issuance
// - ExamService: drives the exam proposal/review/reschedule lifecycle
// - ReportService: builds the coordinator, group and secretarial views
// - CourseService: course administration and examination methods
// - RoomService: room administration
// - PeriodService: examination period administration
// - AdminService: user administration and the application reset
